package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coparenthq/feishu-moderator/internal/biz/usecase"
)

// PromptsConfig contains the classifier prompt sections, loadable from YAML.
// Empty sections fall back to the compiled-in defaults, which carry the
// moderation policy (including the ambiguity bias) verbatim.
type PromptsConfig struct {
	Filter FilterPrompts `yaml:"filter"`
}

// FilterPrompts contains the sections of the moderation system prompt.
type FilterPrompts struct {
	// Preamble states the allowed topic domain and the JSON response contract.
	Preamble string `yaml:"preamble"`
	// ProfileTemplate is a fmt template taking the profile display name and
	// the behavior list rendered one per line.
	ProfileTemplate string `yaml:"profile_template"`
	// Closing holds the example decisions and the ambiguity-bias instruction.
	Closing string `yaml:"closing"`
}

// DefaultPreamble is the fixed rule preamble of the moderation prompt.
const DefaultPreamble = `You are a co-parenting message moderator. Your job is to evaluate messages for appropriateness in a co-parenting logistics group.

CORE RULES:
1. ALLOW messages about: children's health, education, scheduling, logistics, emergencies
2. BE PERMISSIVE: When in doubt or if context is unclear, ALLOW the message
3. Only BLOCK messages that are OBVIOUSLY inappropriate

RESPONSE FORMAT: Return ONLY valid JSON in this exact format:
{"allow": true/false, "reason": "specific explanation", "category": "reason_category"}

`

// DefaultProfileTemplate renders the behavior-pattern block for a profile.
// Arguments: display name, behavior lines.
const DefaultProfileTemplate = `
MODERATION PROFILE: %s
Watch specifically for these behavioral patterns:
%s

When blocking, use specific language about what pattern was detected.
Examples of targeted responses:
- "This appears to be performative posturing rather than actionable co-parenting communication"
- "This message deflects from logistics to emotional manipulation"
- "This seems designed to craft a narrative rather than address children's needs"
- "This appears to be grandstanding without substance about children's welfare"

`

// DefaultClosing holds the example decisions and the ambiguity bias. The
// final instruction is product policy, not style: the default verdict under
// uncertainty is allow.
const DefaultClosing = `
EXAMPLES:
{"allow": true, "reason": "Legitimate scheduling discussion", "category": "scheduling"}
{"allow": false, "reason": "This appears to be performative posturing rather than actionable co-parenting communication", "category": "performative"}
{"allow": true, "reason": "Unclear context but potentially legitimate", "category": "permissive"}

Remember: When message intent is unclear or ambiguous, ALWAYS err on the side of allowing it.`

// DefaultPromptsConfig returns the compiled-in prompt sections.
func DefaultPromptsConfig() *PromptsConfig {
	return &PromptsConfig{
		Filter: FilterPrompts{
			Preamble:        DefaultPreamble,
			ProfileTemplate: DefaultProfileTemplate,
			Closing:         DefaultClosing,
		},
	}
}

// LoadPromptsConfig loads prompt sections from a YAML file. With an empty
// path it probes the usual locations; if nothing is found the defaults are
// returned.
func LoadPromptsConfig(configPath string) (*PromptsConfig, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/prompts.yaml",
			"/etc/feishu-moderator/prompts.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "prompts.yaml"))
		}
	}

	var data []byte
	for _, p := range paths {
		if p == "" {
			continue
		}
		if b, err := os.ReadFile(p); err == nil {
			data = b
			break
		}
	}

	if data == nil {
		return DefaultPromptsConfig(), nil
	}

	var config PromptsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse prompts.yaml: %w", err)
	}
	config.fillDefaults()
	return &config, nil
}

// ToPromptConfig converts to the usecase prompt configuration
func (c *PromptsConfig) ToPromptConfig() usecase.PromptConfig {
	return usecase.PromptConfig{
		Preamble:        c.Filter.Preamble,
		ProfileTemplate: c.Filter.ProfileTemplate,
		Closing:         c.Filter.Closing,
	}
}

func (c *PromptsConfig) fillDefaults() {
	if c.Filter.Preamble == "" {
		c.Filter.Preamble = DefaultPreamble
	}
	if c.Filter.ProfileTemplate == "" {
		c.Filter.ProfileTemplate = DefaultProfileTemplate
	}
	if c.Filter.Closing == "" {
		c.Filter.Closing = DefaultClosing
	}
}
