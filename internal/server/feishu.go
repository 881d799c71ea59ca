package server

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coparenthq/feishu-moderator/feishu"
	"github.com/coparenthq/feishu-moderator/internal/biz/domain"
	"github.com/coparenthq/feishu-moderator/internal/biz/repo"
	"github.com/coparenthq/feishu-moderator/internal/biz/usecase"
	"github.com/coparenthq/feishu-moderator/internal/metrics"
)

// Stats holds running verdict counts since startup.
type Stats struct {
	Allowed uint64
	Blocked uint64
	Errors  uint64
}

// FeishuServer receives Feishu messages and runs the moderation pipeline on
// messages from the watched member.
type FeishuServer struct {
	feishuClient *feishu.Client
	messageRepo  repo.MessageRepo
	seenRepo     repo.SeenRepo
	moderationUC *usecase.ModerationUsecase
	logger       *logrus.Logger

	targetOpenID string

	allowed uint64
	blocked uint64
	errors  uint64
}

// NewFeishuServer creates a new moderation server
func NewFeishuServer(
	feishuClient *feishu.Client,
	messageRepo repo.MessageRepo,
	seenRepo repo.SeenRepo,
	moderationUC *usecase.ModerationUsecase,
	targetOpenID string,
	logger *logrus.Logger,
) *FeishuServer {
	return &FeishuServer{
		feishuClient: feishuClient,
		messageRepo:  messageRepo,
		seenRepo:     seenRepo,
		moderationUC: moderationUC,
		targetOpenID: targetOpenID,
		logger:       logger,
	}
}

// Start registers the message handler and connects (blocking)
func (s *FeishuServer) Start() error {
	s.feishuClient.OnMessage(s.handleMessage)
	return s.feishuClient.Start()
}

// Stop disconnects from Feishu
func (s *FeishuServer) Stop() {
	s.feishuClient.Stop()
}

// Stats returns the verdict counts since startup
func (s *FeishuServer) Stats() Stats {
	return Stats{
		Allowed: atomic.LoadUint64(&s.allowed),
		Blocked: atomic.LoadUint64(&s.blocked),
		Errors:  atomic.LoadUint64(&s.errors),
	}
}

// handleMessage processes one incoming Feishu message
func (s *FeishuServer) handleMessage(msg *feishu.Message) {
	ctx := context.Background()

	incoming := toDomainMessage(msg)
	if incoming.IsFromBot() {
		return
	}

	text := strings.TrimSpace(incoming.Content)
	if text == "" {
		return
	}

	// Commands are answered for any member, not just the target.
	if handled := s.handleCommand(ctx, incoming.ChatID, text); handled {
		return
	}

	// Only the watched member is moderated.
	if incoming.SenderID != s.targetOpenID {
		return
	}

	// Skip redelivered events. A dedup store failure is logged but does not
	// stop moderation: double-processing beats not processing at all.
	fresh, err := s.seenRepo.MarkSeen(ctx, incoming.ID)
	if err != nil {
		s.logger.WithError(err).WithField("msg_id", incoming.ID).
			Warn("seen store failed, processing anyway")
	} else if !fresh {
		s.logger.WithField("msg_id", incoming.ID).Debug("duplicate event ignored")
		return
	}

	log := s.logger.WithFields(logrus.Fields{
		"chat_id": incoming.ChatID,
		"msg_id":  incoming.ID,
		"sender":  incoming.SenderID,
	})
	log.WithField("preview", truncate(text, 50)).Info("processing message")

	start := time.Now()
	decision := s.moderationUC.Classify(ctx, text)
	metrics.ClassifyDuration.Observe(time.Since(start).Seconds())

	log = log.WithFields(logrus.Fields{
		"category": decision.Category,
		"reason":   decision.Reason,
	})

	if decision.Allow {
		atomic.AddUint64(&s.allowed, 1)
		metrics.DecisionsTotal.WithLabelValues("allow").Inc()
		log.Info("message allowed")
		return
	}

	atomic.AddUint64(&s.blocked, 1)
	metrics.DecisionsTotal.WithLabelValues("block").Inc()
	log.Warn("message blocked")

	s.deleteAndWarn(ctx, incoming, decision)
}

// deleteAndWarn removes the blocked message and posts the explanation.
// Transport failures are logged, never propagated: a failed deletion must
// not crash the event loop.
func (s *FeishuServer) deleteAndWarn(ctx context.Context, msg domain.Message, decision domain.Decision) {
	log := s.logger.WithFields(logrus.Fields{
		"chat_id": msg.ChatID,
		"msg_id":  msg.ID,
	})

	if err := s.messageRepo.DeleteMessage(ctx, msg.ID); err != nil {
		atomic.AddUint64(&s.errors, 1)
		metrics.DeletionsTotal.WithLabelValues("error").Inc()
		log.WithError(err).Error("failed to delete blocked message")
	} else {
		metrics.DeletionsTotal.WithLabelValues("ok").Inc()
		log.Info("deleted blocked message")
	}

	warning := usecase.ComposeWarning(decision)
	if err := s.messageRepo.SendText(ctx, msg.ChatID, warning); err != nil {
		atomic.AddUint64(&s.errors, 1)
		log.WithError(err).Error("failed to send warning")
		return
	}
	log.Info("sent warning")
}

// handleCommand answers the bot commands. Returns true if text was a command.
func (s *FeishuServer) handleCommand(ctx context.Context, chatID, text string) bool {
	var reply string
	switch text {
	case "/start":
		reply = s.startReply()
	case "/status":
		reply = s.statusReply()
	case "/profile":
		reply = s.profileReply()
	default:
		return false
	}

	if err := s.messageRepo.SendText(ctx, chatID, reply); err != nil {
		s.logger.WithError(err).WithField("chat_id", chatID).Error("failed to send command reply")
	}
	return true
}

func (s *FeishuServer) startReply() string {
	profile := s.moderationUC.ActiveProfile()
	return fmt.Sprintf(
		"Co-Parent Filter Bot is running.\n\n"+
			"Monitoring messages from: %s\n"+
			"Moderation profile: %s\n"+
			"Filtering for co-parenting topics: health, education, scheduling, logistics\n"+
			"Mode: %s",
		s.targetOpenID, profile.DisplayName, modeLabel(profile.Permissive))
}

func (s *FeishuServer) statusReply() string {
	profile := s.moderationUC.ActiveProfile()
	stats := s.Stats()
	return fmt.Sprintf(
		"Bot status:\n"+
			"Active and monitoring %s\n"+
			"Profile: %s\n"+
			"Mode: %s\n"+
			"Allowed: %d, blocked: %d, transport errors: %d",
		s.targetOpenID, profile.DisplayName, modeLabel(profile.Permissive),
		stats.Allowed, stats.Blocked, stats.Errors)
}

func (s *FeishuServer) profileReply() string {
	profile := s.moderationUC.ActiveProfile()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Current moderation profile: %s\n\n", profile.DisplayName)
	fmt.Fprintf(&sb, "Description: %s\n\n", profile.Description)

	if len(profile.Behaviors) > 0 {
		sb.WriteString("Watching for these patterns:\n")
		for _, behavior := range profile.Behaviors {
			sb.WriteString("- " + behavior + "\n")
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Mode: %s", modeLabel(profile.Permissive))
	return sb.String()
}

func modeLabel(permissive bool) string {
	if permissive {
		return "Permissive (only blocks obviously problematic content)"
	}
	return "Strict"
}

func toDomainMessage(msg *feishu.Message) domain.Message {
	m := domain.Message{
		ID:         msg.MsgID,
		ChatID:     msg.ChatID,
		Content:    msg.Content,
		ChatType:   msg.ChatType,
		CreateTime: time.UnixMilli(msg.CreateTime),
	}
	if msg.Sender != nil {
		m.SenderID = msg.Sender.SenderID
		m.SenderType = msg.Sender.SenderType
	}
	return m
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
