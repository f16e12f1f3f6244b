package chathub

import "roomchat/backend/internal/models"

// Client is the interface for one active connection. It abstracts the
// underlying transport, so the hub can fan events out without knowing
// whether the peer is a real WebSocket or a test double.
type Client interface {
	// GetConnID returns the unique identifier of the connection itself,
	// distinct from any user identity carried in protocol payloads.
	GetConnID() string

	// GetSendChannel returns the channel the hub writes outbound events
	// to. It is a send-only channel.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps, which handle incoming
	// and outgoing frames.
	Run()

	// Close shuts down the client's outbound channel, stopping its write
	// pump.
	Close()
}
