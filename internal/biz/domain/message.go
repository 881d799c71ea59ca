package domain

import "time"

// Message represents an incoming chat message as seen by the moderation server.
type Message struct {
	ID         string
	ChatID     string
	Content    string
	SenderID   string
	SenderType string // user, bot
	ChatType   string // p2p, group
	CreateTime time.Time
}

// IsFromBot checks if the message was sent by a bot
func (m *Message) IsFromBot() bool {
	return m.SenderType == "bot" || m.SenderType == "app"
}
