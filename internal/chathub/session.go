package chathub

import (
	"fmt"

	"roomchat/backend/internal/ident"
	"roomchat/backend/internal/models"
)

// The three protocol operations. All of them run on the hub goroutine, so
// registry mutations never interleave; the only asynchronous step is the
// snapshot save, which the Saver serializes.

// handleCreateRoom builds a fresh room owned by the requesting user,
// subscribes the connection to it, and confirms to the creator only.
// Inputs are accepted as-is; no format validation is performed.
func (m *ManagerService) handleCreateRoom(c Client, p models.CreateRoomPayload) {
	now := ident.NowTime()
	room := &models.Room{
		ID:        ident.NewID(),
		RoomName:  p.RoomName,
		RoomCode:  ident.NewRoomCode(),
		CreatedBy: p.UserID,
		CreatedAt: now,
		Users:     []string{p.UserID},
		Messages: []models.Message{{
			ID:        ident.NewID(),
			Text:      fmt.Sprintf("Room %q was created by %s", p.RoomName, p.UserID),
			Sender:    models.SystemSender,
			Timestamp: now,
		}},
	}

	ev, err := models.NewEvent(models.EventRoomCreated, room)
	if err != nil {
		m.log.Error().Err(err).Msg("error creating room")
		m.sendError(c, "Failed to create room")
		return
	}

	m.joinGroup(room.ID, c)
	m.send(c, ev)

	m.Registry.InsertFront(room)
	m.saver.Enqueue(m.Registry.Snapshot())
	m.log.Info().
		Str("room", room.ID).
		Int("code", room.RoomCode).
		Str("user", p.UserID).
		Msg("room created")
}

// handleJoinRoom resolves a room by its shareable code. The connection is
// always subscribed to the group, rejoin included; the membership list, the
// join announcement, and the save only happen for a genuinely new member.
func (m *ManagerService) handleJoinRoom(c Client, p models.JoinRoomPayload) {
	room, ok := m.Registry.FindByCode(int(p.RoomCode))
	if !ok {
		m.sendError(c, "Room not found")
		return
	}

	m.joinGroup(room.ID, c)

	if !room.HasUser(p.UserID) {
		room.Users = append(room.Users, p.UserID)
		room.Messages = append(room.Messages, models.Message{
			ID:        ident.NewID(),
			Text:      fmt.Sprintf("%s joined the room", p.UserID),
			Sender:    models.SystemSender,
			Timestamp: ident.NowTime(),
		})

		joined, err := models.NewEvent(models.EventUserJoined, models.UserJoinedPayload{UserID: p.UserID})
		if err != nil {
			m.log.Error().Err(err).Msg("error joining room")
			m.sendError(c, "Failed to join room")
			return
		}
		m.broadcast(room.ID, c, joined)

		m.saver.Enqueue(m.Registry.Snapshot())
		m.log.Info().Str("room", room.ID).Str("user", p.UserID).Msg("user joined room")
	}

	ev, err := models.NewEvent(models.EventRoomJoined, room)
	if err != nil {
		m.log.Error().Err(err).Msg("error joining room")
		m.sendError(c, "Failed to join room")
		return
	}
	m.send(c, ev)
}

// handleSendMessage appends a message to a room resolved by internal id and
// broadcasts it to every member of the group, the sender included.
func (m *ManagerService) handleSendMessage(c Client, p models.SendMessagePayload) {
	room, ok := m.Registry.FindByID(p.RoomID)
	if !ok {
		m.sendError(c, "Room not found")
		return
	}

	msg := models.Message{
		ID:        ident.NewID(),
		Text:      p.Msg,
		Sender:    p.UserID,
		Timestamp: ident.NowTime(),
	}

	ev, err := models.NewEvent(models.EventNewMessage, msg)
	if err != nil {
		m.log.Error().Err(err).Msg("error sending message")
		m.sendError(c, "Failed to send message")
		return
	}

	room.Messages = append(room.Messages, msg)
	m.broadcast(room.ID, nil, ev)

	m.saver.Enqueue(m.Registry.Snapshot())
	m.log.Info().
		Str("room", room.ID).
		Str("roomName", room.RoomName).
		Str("sender", p.UserID).
		Msg("message sent")
}
