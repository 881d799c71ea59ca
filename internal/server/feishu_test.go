package server

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coparenthq/feishu-moderator/feishu"
	"github.com/coparenthq/feishu-moderator/internal/biz/domain"
	"github.com/coparenthq/feishu-moderator/internal/biz/usecase"
)

const targetID = "ou_target"

// MockMessageRepo implements repo.MessageRepo for testing
type MockMessageRepo struct {
	mu      sync.Mutex
	sent    []string
	deleted []string
}

func (m *MockMessageRepo) SendText(ctx context.Context, chatID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, text)
	return nil
}

func (m *MockMessageRepo) DeleteMessage(ctx context.Context, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, messageID)
	return nil
}

// MockSeenRepo implements repo.SeenRepo for testing
type MockSeenRepo struct {
	seen map[string]bool
}

func (m *MockSeenRepo) MarkSeen(ctx context.Context, messageID string) (bool, error) {
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	if m.seen[messageID] {
		return false, nil
	}
	m.seen[messageID] = true
	return true, nil
}

func (m *MockSeenRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

// stubClassifier implements repo.ClassifierRepo for testing
type stubClassifier struct {
	raw string
}

func (s *stubClassifier) ClassifyRaw(ctx context.Context, systemPrompt, text string) (string, error) {
	return s.raw, nil
}

// stubProfiles implements usecase.ProfileStore for testing
type stubProfiles struct{}

func (stubProfiles) Get(name string) domain.Profile {
	return domain.Profile{
		Name:        "standard",
		DisplayName: "Standard Moderation",
		Description: "Basic co-parenting topic filtering",
		Permissive:  true,
	}
}

func newTestServer(raw string) (*FeishuServer, *MockMessageRepo) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	moderationUC := usecase.NewModerationUsecase(
		stubProfiles{},
		func() string { return "standard" },
		&stubClassifier{raw: raw},
		usecase.NewPromptBuilder(usecase.PromptConfig{
			Preamble:        "p",
			ProfileTemplate: "%s%s",
			Closing:         "c",
		}),
		logger,
	)

	msgRepo := &MockMessageRepo{}
	srv := NewFeishuServer(nil, msgRepo, &MockSeenRepo{}, moderationUC, targetID, logger)
	return srv, msgRepo
}

func targetMessage(msgID, text string) *feishu.Message {
	return &feishu.Message{
		ChatID:   "oc_chat",
		MsgID:    msgID,
		MsgType:  "text",
		ChatType: "group",
		Content:  text,
		Sender:   &feishu.Sender{SenderID: targetID, SenderType: "user"},
	}
}

func TestHandleMessageAllowed(t *testing.T) {
	srv, msgRepo := newTestServer(`{"allow": true, "reason": "Legitimate scheduling discussion", "category": "scheduling"}`)

	srv.handleMessage(targetMessage("om_1", "Can we move pickup to 5pm Friday?"))

	if len(msgRepo.deleted) != 0 {
		t.Errorf("allowed message must not be deleted, got %v", msgRepo.deleted)
	}
	if len(msgRepo.sent) != 0 {
		t.Errorf("allowed message must produce no warning, got %v", msgRepo.sent)
	}
	if stats := srv.Stats(); stats.Allowed != 1 || stats.Blocked != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestHandleMessageBlockedDeletesAndWarns(t *testing.T) {
	srv, msgRepo := newTestServer(`{"allow": false, "reason": "This appears to be grandstanding", "category": "grandstanding"}`)

	srv.handleMessage(targetMessage("om_2", "As always, I am the only one who cares."))

	if len(msgRepo.deleted) != 1 || msgRepo.deleted[0] != "om_2" {
		t.Fatalf("blocked message not deleted: %v", msgRepo.deleted)
	}
	if len(msgRepo.sent) != 1 {
		t.Fatalf("expected one warning, got %v", msgRepo.sent)
	}
	if !strings.Contains(msgRepo.sent[0], "This appears to be grandstanding") {
		t.Errorf("warning missing reason: %q", msgRepo.sent[0])
	}
	if !strings.Contains(msgRepo.sent[0], "co-parenting logistics only") {
		t.Errorf("warning missing scope statement: %q", msgRepo.sent[0])
	}
	if stats := srv.Stats(); stats.Blocked != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestHandleMessageIgnoresOtherSenders(t *testing.T) {
	srv, msgRepo := newTestServer(`{"allow": false, "reason": "blocked", "category": "off_topic"}`)

	msg := targetMessage("om_3", "totally off topic rant")
	msg.Sender.SenderID = "ou_other"
	srv.handleMessage(msg)

	if len(msgRepo.deleted) != 0 || len(msgRepo.sent) != 0 {
		t.Error("non-target senders must not be moderated")
	}
}

func TestHandleMessageIgnoresBotMessages(t *testing.T) {
	srv, msgRepo := newTestServer(`{"allow": false, "reason": "blocked", "category": "off_topic"}`)

	msg := targetMessage("om_4", "warning text from the bot itself")
	msg.Sender.SenderType = "bot"
	srv.handleMessage(msg)

	if len(msgRepo.sent) != 0 {
		t.Error("bot messages must be ignored to avoid loops")
	}
}

func TestHandleMessageDeduplicates(t *testing.T) {
	srv, msgRepo := newTestServer(`{"allow": false, "reason": "blocked rant", "category": "off_topic"}`)

	msg := targetMessage("om_5", "the same redelivered rant")
	srv.handleMessage(msg)
	srv.handleMessage(msg)

	if len(msgRepo.deleted) != 1 {
		t.Errorf("redelivered event deleted %d times, want 1", len(msgRepo.deleted))
	}
	if len(msgRepo.sent) != 1 {
		t.Errorf("redelivered event warned %d times, want 1", len(msgRepo.sent))
	}
}

func TestHandleMessageIgnoresEmptyText(t *testing.T) {
	srv, msgRepo := newTestServer(`{"allow": false, "reason": "blocked", "category": "off_topic"}`)

	srv.handleMessage(targetMessage("om_6", "   \n  "))

	if len(msgRepo.deleted) != 0 || len(msgRepo.sent) != 0 {
		t.Error("blank messages must be ignored")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		n        int
		expected string
	}{
		{"hello", 10, "hello"},
		{"hello world", 5, "hello..."},
		{"", 5, ""},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc..."},
	}

	for _, tt := range tests {
		result := truncate(tt.input, tt.n)
		if result != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, result, tt.expected)
		}
	}
}

func TestHandleCommandStatus(t *testing.T) {
	srv, msgRepo := newTestServer(`{"allow": true, "reason": "ok"}`)

	msg := targetMessage("om_7", "/status")
	msg.Sender.SenderID = "ou_other" // commands work for any member
	srv.handleMessage(msg)

	if len(msgRepo.sent) != 1 {
		t.Fatalf("expected one status reply, got %v", msgRepo.sent)
	}
	if !strings.Contains(msgRepo.sent[0], "Standard Moderation") {
		t.Errorf("status reply missing profile name: %q", msgRepo.sent[0])
	}
}

func TestHandleCommandProfile(t *testing.T) {
	srv, msgRepo := newTestServer(`{"allow": true, "reason": "ok"}`)

	srv.handleMessage(targetMessage("om_8", "/profile"))

	if len(msgRepo.sent) != 1 {
		t.Fatalf("expected one profile reply, got %v", msgRepo.sent)
	}
	if !strings.Contains(msgRepo.sent[0], "Basic co-parenting topic filtering") {
		t.Errorf("profile reply missing description: %q", msgRepo.sent[0])
	}
	if len(msgRepo.deleted) != 0 {
		t.Error("commands must never be deleted")
	}
}
