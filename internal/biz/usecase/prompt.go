package usecase

import (
	"fmt"
	"strings"

	"github.com/coparenthq/feishu-moderator/internal/biz/domain"
)

// PromptConfig contains the sections of the moderation system prompt.
// conf.PromptsConfig converts into this so the usecase layer stays free of
// config-file concerns.
type PromptConfig struct {
	// Preamble states the allowed topics, the permissive rule, and the
	// JSON-only response contract.
	Preamble string
	// ProfileTemplate is a fmt template taking the profile display name and
	// the rendered behavior list.
	ProfileTemplate string
	// Closing holds example decisions and the ambiguity-bias instruction.
	Closing string
}

// PromptBuilder renders the classifier system prompt from a profile
type PromptBuilder struct {
	config PromptConfig
}

// NewPromptBuilder creates a prompt builder
func NewPromptBuilder(config PromptConfig) *PromptBuilder {
	return &PromptBuilder{config: config}
}

// Build renders the system prompt for a profile. The output is a pure
// function of the profile's display name and behavior list; the description
// is deliberately excluded. Profiles without behaviors get only the preamble
// and closing sections.
func (b *PromptBuilder) Build(profile domain.Profile) string {
	var sb strings.Builder
	sb.WriteString(b.config.Preamble)

	if len(profile.Behaviors) > 0 {
		lines := make([]string, len(profile.Behaviors))
		for i, behavior := range profile.Behaviors {
			lines[i] = "- " + behavior
		}
		sb.WriteString(fmt.Sprintf(b.config.ProfileTemplate, profile.DisplayName, strings.Join(lines, "\n")))
	}

	sb.WriteString(b.config.Closing)
	return sb.String()
}
