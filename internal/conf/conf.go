package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration
type Config struct {
	// Feishu configuration
	Feishu FeishuConfig

	// OpenAI-compatible judge configuration
	OpenAI OpenAIConfig

	// Moderation configuration
	Moderation ModerationConfig

	// Seen-event store configuration
	Seen SeenConfig

	// Ops HTTP API configuration
	API APIConfig

	// Log level name (logrus levels)
	LogLevel string

	// Debug mode
	Debug bool
}

// FeishuConfig contains Feishu app credentials
type FeishuConfig struct {
	AppID     string
	AppSecret string
}

// OpenAIConfig contains the judgment service settings
type OpenAIConfig struct {
	APIKey  string
	BaseURL string        // empty = api.openai.com
	Model   string        // default gpt-4o-mini
	Timeout time.Duration // per-request timeout
}

// ModerationConfig contains the moderation target and profile selection
type ModerationConfig struct {
	// TargetOpenID is the open_id of the single watched member.
	TargetOpenID string
	// ProfileName selects the active moderation profile.
	ProfileName string
	// ProfilesPath optionally points at a YAML profile overlay.
	ProfilesPath string
	// PromptsPath optionally points at a YAML prompts file.
	PromptsPath string
}

// SeenConfig contains the dedup store settings
type SeenConfig struct {
	DBPath string
	TTL    time.Duration
}

// APIConfig contains the ops HTTP server settings
type APIConfig struct {
	Port int // 0 disables the server
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	seenDBPath := os.Getenv("SEEN_DB_PATH")
	if seenDBPath == "" {
		homeDir, _ := os.UserHomeDir()
		seenDBPath = filepath.Join(homeDir, ".feishu-moderator", "seen.db")
	}

	seenTTLHours := 24
	if val := os.Getenv("SEEN_TTL_HOURS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			seenTTLHours = parsed
		}
	}

	timeoutSec := 15
	if val := os.Getenv("OPENAI_TIMEOUT_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	profileName := os.Getenv("MODERATION_PROFILE")
	if profileName == "" {
		profileName = DefaultProfileName
	}

	apiPort := 0
	if val := os.Getenv("API_PORT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			apiPort = parsed
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		Feishu: FeishuConfig{
			AppID:     os.Getenv("FEISHU_APP_ID"),
			AppSecret: os.Getenv("FEISHU_APP_SECRET"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   model,
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		Moderation: ModerationConfig{
			TargetOpenID: strings.TrimSpace(os.Getenv("TARGET_OPEN_ID")),
			ProfileName:  profileName,
			ProfilesPath: os.Getenv("PROFILES_CONFIG_PATH"),
			PromptsPath:  os.Getenv("PROMPTS_CONFIG_PATH"),
		},
		Seen: SeenConfig{
			DBPath: seenDBPath,
			TTL:    time.Duration(seenTTLHours) * time.Hour,
		},
		API: APIConfig{
			Port: apiPort,
		},
		LogLevel: logLevel,
		Debug:    os.Getenv("DEBUG") == "true",
	}
}

// Validate checks the configuration against the known profiles. Missing
// credentials or an unrecognized profile name abort startup; everything else
// is handled per message.
func (c *Config) Validate(profiles *ProfileStore) error {
	var missing []string

	if c.Feishu.AppID == "" || c.Feishu.AppSecret == "" {
		missing = append(missing, "FEISHU_APP_ID/FEISHU_APP_SECRET")
	}
	if c.OpenAI.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.Moderation.TargetOpenID == "" {
		missing = append(missing, "TARGET_OPEN_ID")
	}
	if !profiles.Has(c.Moderation.ProfileName) {
		missing = append(missing, fmt.Sprintf(
			"MODERATION_PROFILE (valid options: %s)",
			strings.Join(profiles.Names(), ", ")))
	}

	if len(missing) > 0 {
		return &ConfigError{
			Field:   strings.Join(missing, ", "),
			Message: "missing or invalid",
		}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
