// Package bot assembles the moderation pipeline, the Feishu transport, and
// the background services into one runnable unit.
package bot

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/coparenthq/feishu-moderator/feishu"
	"github.com/coparenthq/feishu-moderator/internal/api"
	"github.com/coparenthq/feishu-moderator/internal/biz/usecase"
	"github.com/coparenthq/feishu-moderator/internal/conf"
	"github.com/coparenthq/feishu-moderator/internal/data"
	"github.com/coparenthq/feishu-moderator/internal/server"
	"github.com/coparenthq/feishu-moderator/internal/service"
	"github.com/coparenthq/feishu-moderator/llm"
	"github.com/coparenthq/feishu-moderator/seen"
)

// Bot is the assembled moderation bot
type Bot struct {
	config    *conf.Config
	logger    *logrus.Logger
	server    *server.FeishuServer
	apiServer *api.Server
	janitor   *service.Janitor
	seenStore *seen.Store
}

// New wires the bot from configuration. Config must already be validated.
func New(config *conf.Config, logger *logrus.Logger) (*Bot, error) {
	profiles, err := conf.NewProfileStoreFromFile(config.Moderation.ProfilesPath)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	prompts, err := conf.LoadPromptsConfig(config.Moderation.PromptsPath)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	seenStore, err := seen.NewStore(config.Seen.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open seen store: %w", err)
	}

	llmClient := llm.NewClient(
		config.OpenAI.APIKey,
		config.OpenAI.BaseURL,
		config.OpenAI.Model,
		llm.WithTimeout(config.OpenAI.Timeout),
	)

	classifierRepo := data.NewOpenAIRepo(llmClient)
	seenRepo := data.NewSeenRepo(seenStore)

	promptBuilder := usecase.NewPromptBuilder(prompts.ToPromptConfig())
	profileName := config.Moderation.ProfileName
	moderationUC := usecase.NewModerationUsecase(
		profiles,
		func() string { return profileName },
		classifierRepo,
		promptBuilder,
		logger,
	)

	feishuClient := feishu.NewClient(config.Feishu.AppID, config.Feishu.AppSecret, logger)
	messageRepo := data.NewFeishuRepo(feishuClient)

	srv := server.NewFeishuServer(
		feishuClient,
		messageRepo,
		seenRepo,
		moderationUC,
		config.Moderation.TargetOpenID,
		logger,
	)

	b := &Bot{
		config:    config,
		logger:    logger,
		server:    srv,
		janitor:   service.NewJanitor(seenRepo, config.Seen.TTL, logger),
		seenStore: seenStore,
	}

	if config.API.Port > 0 {
		b.apiServer = api.NewServer(moderationUC, srv, config.API.Port, logger)
	}

	return b, nil
}

// Start runs the bot until the transport stops (blocking)
func (b *Bot) Start() error {
	b.janitor.Start()

	if b.apiServer != nil {
		if err := b.apiServer.Start(); err != nil {
			return fmt.Errorf("start ops API: %w", err)
		}
	}

	b.logger.WithFields(logrus.Fields{
		"target":  b.config.Moderation.TargetOpenID,
		"profile": b.config.Moderation.ProfileName,
	}).Info("moderation bot starting")

	return b.server.Start()
}

// Stop shuts the bot down
func (b *Bot) Stop() {
	b.server.Stop()
	b.janitor.Stop()
	if b.apiServer != nil {
		_ = b.apiServer.Stop()
	}
	_ = b.seenStore.Close()
}
