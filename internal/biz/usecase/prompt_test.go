package usecase

import (
	"strings"
	"testing"

	"github.com/coparenthq/feishu-moderator/internal/biz/domain"
)

var testPromptConfig = PromptConfig{
	Preamble:        "PREAMBLE with JSON contract\n",
	ProfileTemplate: "\nPROFILE: %s\nPatterns:\n%s\n",
	Closing:         "\nCLOSING: When message intent is unclear or ambiguous, ALWAYS err on the side of allowing it.",
}

func TestBuildDeterministic(t *testing.T) {
	builder := NewPromptBuilder(testPromptConfig)
	profile := domain.Profile{
		Name:        "test",
		DisplayName: "Test Profile",
		Behaviors:   []string{"pattern one", "pattern two"},
	}

	first := builder.Build(profile)
	for i := 0; i < 10; i++ {
		if got := builder.Build(profile); got != first {
			t.Fatalf("Build is not deterministic: run %d differs", i)
		}
	}
}

func TestBuildWithBehaviors(t *testing.T) {
	builder := NewPromptBuilder(testPromptConfig)
	profile := domain.Profile{
		Name:        "manipulative_coparent",
		DisplayName: "Manipulative Co-Parent",
		Description: "should never appear",
		Behaviors:   []string{"performative posturing", "guilt tripping"},
	}

	prompt := builder.Build(profile)

	if !strings.Contains(prompt, "PROFILE: Manipulative Co-Parent") {
		t.Error("prompt missing profile display name")
	}
	if !strings.Contains(prompt, "- performative posturing") {
		t.Error("prompt missing first behavior line")
	}
	if !strings.Contains(prompt, "- guilt tripping") {
		t.Error("prompt missing second behavior line")
	}
	if strings.Contains(prompt, "should never appear") {
		t.Error("profile description must not be part of the prompt")
	}
	if !strings.HasPrefix(prompt, testPromptConfig.Preamble) {
		t.Error("prompt must start with the preamble")
	}
	if !strings.HasSuffix(prompt, testPromptConfig.Closing) {
		t.Error("prompt must end with the closing section")
	}
}

func TestBuildWithoutBehaviors(t *testing.T) {
	builder := NewPromptBuilder(testPromptConfig)
	profile := domain.Profile{Name: "standard", DisplayName: "Standard Moderation"}

	prompt := builder.Build(profile)

	if strings.Contains(prompt, "PROFILE:") {
		t.Error("profile block must be omitted when there are no behaviors")
	}
	if prompt != testPromptConfig.Preamble+testPromptConfig.Closing {
		t.Error("behavior-free prompt should be preamble plus closing only")
	}
}

func TestBuildKeepsAmbiguityBias(t *testing.T) {
	builder := NewPromptBuilder(testPromptConfig)

	for _, profile := range []domain.Profile{
		{Name: "standard", DisplayName: "Standard"},
		{Name: "strict", DisplayName: "Strict", Behaviors: []string{"anything"}},
	} {
		prompt := builder.Build(profile)
		if !strings.Contains(prompt, "ALWAYS err on the side of allowing it") {
			t.Errorf("profile %s: prompt lost the ambiguity bias instruction", profile.Name)
		}
	}
}
