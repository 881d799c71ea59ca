package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/coparenthq/feishu-moderator/bot"
	"github.com/coparenthq/feishu-moderator/internal/conf"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := conf.LoadFromEnv()

	logger := logrus.New()
	if level, err := logrus.ParseLevel(config.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	profiles, err := conf.NewProfileStoreFromFile(config.Moderation.ProfilesPath)
	if err != nil {
		logger.Fatalf("Failed to load profiles: %v", err)
	}
	if err := config.Validate(profiles); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	b, err := bot.New(config, logger)
	if err != nil {
		logger.Fatalf("Failed to create bot: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutting down")
		b.Stop()
		os.Exit(0)
	}()

	if err := b.Start(); err != nil {
		logger.Fatalf("Bot error: %v", err)
	}
}
