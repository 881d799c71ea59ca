package repo

import "context"

// MessageRepo is the chat transport interface: delivering warnings and
// removing blocked messages. Receiving is event-driven and lives in the server.
type MessageRepo interface {
	// SendText sends a plain text message to a chat.
	SendText(ctx context.Context, chatID, text string) error

	// DeleteMessage removes a message from its chat.
	DeleteMessage(ctx context.Context, messageID string) error
}
