// Command classify runs a single message through the moderation pipeline and
// prints the decision. Useful for tuning profiles without a live chat.
//
// Usage:
//
//	classify [-profile name] "message text"
//	echo "message text" | classify
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/coparenthq/feishu-moderator/internal/biz/usecase"
	"github.com/coparenthq/feishu-moderator/internal/conf"
	"github.com/coparenthq/feishu-moderator/internal/data"
	"github.com/coparenthq/feishu-moderator/llm"
)

func main() {
	profileFlag := flag.String("profile", "", "moderation profile to use (default: MODERATION_PROFILE)")
	flag.Parse()

	_ = godotenv.Load()
	config := conf.LoadFromEnv()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	if config.OpenAI.APIKey == "" {
		fmt.Fprintln(os.Stderr, "OPENAI_API_KEY is required")
		os.Exit(1)
	}

	profileName := config.Moderation.ProfileName
	if *profileFlag != "" {
		profileName = *profileFlag
	}

	profiles, err := conf.NewProfileStoreFromFile(config.Moderation.ProfilesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load profiles: %v\n", err)
		os.Exit(1)
	}
	if !profiles.Has(profileName) {
		fmt.Fprintf(os.Stderr, "Unknown profile %q (valid: %s)\n", profileName, strings.Join(profiles.Names(), ", "))
		os.Exit(1)
	}

	prompts, err := conf.LoadPromptsConfig(config.Moderation.PromptsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load prompts: %v\n", err)
		os.Exit(1)
	}

	text := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(text) == "" {
		raw, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read stdin: %v\n", err)
			os.Exit(1)
		}
		text = string(raw)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		fmt.Fprintln(os.Stderr, "No message text given")
		os.Exit(1)
	}

	llmClient := llm.NewClient(
		config.OpenAI.APIKey,
		config.OpenAI.BaseURL,
		config.OpenAI.Model,
		llm.WithTimeout(config.OpenAI.Timeout),
	)

	moderationUC := usecase.NewModerationUsecase(
		profiles,
		func() string { return profileName },
		data.NewOpenAIRepo(llmClient),
		usecase.NewPromptBuilder(prompts.ToPromptConfig()),
		logger,
	)

	decision := moderationUC.Classify(context.Background(), text)

	out := map[string]interface{}{
		"allow":    decision.Allow,
		"reason":   decision.Reason,
		"category": decision.Category,
	}
	if !decision.Allow {
		out["warning"] = usecase.ComposeWarning(decision)
	}

	encoded, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(encoded))

	if !decision.Allow {
		os.Exit(2)
	}
}
