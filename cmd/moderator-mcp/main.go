// Command moderator-mcp serves the moderation pipeline as MCP tools over
// stdio, for operator spot-checks from MCP-capable clients.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/coparenthq/feishu-moderator/internal/biz/usecase"
	"github.com/coparenthq/feishu-moderator/internal/conf"
	"github.com/coparenthq/feishu-moderator/internal/data"
	"github.com/coparenthq/feishu-moderator/llm"
	"github.com/coparenthq/feishu-moderator/mcpserver"
)

func main() {
	_ = godotenv.Load()
	config := conf.LoadFromEnv()

	// Logs go to stderr; stdout carries the MCP protocol.
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if config.OpenAI.APIKey == "" {
		fmt.Fprintln(os.Stderr, "OPENAI_API_KEY is required")
		os.Exit(1)
	}

	profiles, err := conf.NewProfileStoreFromFile(config.Moderation.ProfilesPath)
	if err != nil {
		logger.Fatalf("Failed to load profiles: %v", err)
	}

	prompts, err := conf.LoadPromptsConfig(config.Moderation.PromptsPath)
	if err != nil {
		logger.Fatalf("Failed to load prompts: %v", err)
	}

	llmClient := llm.NewClient(
		config.OpenAI.APIKey,
		config.OpenAI.BaseURL,
		config.OpenAI.Model,
		llm.WithTimeout(config.OpenAI.Timeout),
	)

	profileName := config.Moderation.ProfileName
	moderationUC := usecase.NewModerationUsecase(
		profiles,
		func() string { return profileName },
		data.NewOpenAIRepo(llmClient),
		usecase.NewPromptBuilder(prompts.ToPromptConfig()),
		logger,
	)

	server := mcpserver.NewServer(moderationUC, profiles)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := server.Run(ctx); err != nil {
		logger.Fatalf("MCP server error: %v", err)
	}
}
