package data

import (
	"context"

	"github.com/coparenthq/feishu-moderator/feishu"
	"github.com/coparenthq/feishu-moderator/internal/biz/repo"
)

// feishuRepo implements the Feishu message repository
type feishuRepo struct {
	client *feishu.Client
}

// NewFeishuRepo creates a new Feishu repository
func NewFeishuRepo(client *feishu.Client) repo.MessageRepo {
	return &feishuRepo{client: client}
}

// SendText sends a text message
func (r *feishuRepo) SendText(ctx context.Context, chatID, text string) error {
	return r.client.SendText(chatID, text)
}

// DeleteMessage removes a message from its chat
func (r *feishuRepo) DeleteMessage(ctx context.Context, messageID string) error {
	return r.client.DeleteMessage(messageID)
}
