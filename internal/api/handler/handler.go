// Package handler exposes the HTTP surface: the liveness endpoint and the
// WebSocket upgrade into the chat hub.
package handler

import "roomchat/backend/internal/chathub"

// Handler holds the chat hub the HTTP layer feeds connections into.
type Handler struct {
	Hub *chathub.ManagerService
}

func NewHandler(hub *chathub.ManagerService) *Handler {
	return &Handler{Hub: hub}
}
