package usecase

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/coparenthq/feishu-moderator/internal/biz/domain"
	"github.com/coparenthq/feishu-moderator/internal/biz/repo"
)

// Fallback decisions for classifier transport failures. A reply that arrived
// but did not parse is handled by the parser's fail-closed default instead:
// an unreachable judge is an infrastructure fault unrelated to the message,
// while an unparseable reply may indicate adversarial input.
var (
	errPermissiveDecision = domain.Decision{
		Allow:    true,
		Reason:   "Unable to evaluate - allowing due to permissive mode",
		Category: "error_permissive",
	}
	errBlockingDecision = domain.Decision{
		Allow:    false,
		Reason:   "Unable to evaluate message properly",
		Category: "error_blocking",
	}
)

var errNotConfigured = errors.New("classifier not configured")

// ProfileStore resolves profile names to profiles
type ProfileStore interface {
	Get(name string) domain.Profile
}

// ModerationUsecase is the classification pipeline entry point
type ModerationUsecase struct {
	profiles    ProfileStore
	profileName func() string
	classifier  repo.ClassifierRepo
	prompts     *PromptBuilder
	logger      *logrus.Logger
}

// NewModerationUsecase creates the moderation pipeline. profileName is
// consulted on every call so the active profile is never cached.
func NewModerationUsecase(
	profiles ProfileStore,
	profileName func() string,
	classifier repo.ClassifierRepo,
	prompts *PromptBuilder,
	logger *logrus.Logger,
) *ModerationUsecase {
	return &ModerationUsecase{
		profiles:    profiles,
		profileName: profileName,
		classifier:  classifier,
		prompts:     prompts,
		logger:      logger,
	}
}

// ActiveProfile resolves the currently active profile
func (uc *ModerationUsecase) ActiveProfile() domain.Profile {
	return uc.profiles.Get(uc.profileName())
}

// Classify evaluates one message and always returns a decision; classifier
// and parse failures are resolved internally, never surfaced as errors.
func (uc *ModerationUsecase) Classify(ctx context.Context, text string) domain.Decision {
	profile := uc.ActiveProfile()
	prompt := uc.prompts.Build(profile)

	raw, err := uc.classify(ctx, prompt, text)
	if err != nil {
		uc.logger.WithError(err).WithField("profile", profile.Name).
			Warn("classifier unavailable, using fallback decision")
		if profile.Permissive {
			return errPermissiveDecision
		}
		return errBlockingDecision
	}

	return domain.ParseDecision(raw)
}

func (uc *ModerationUsecase) classify(ctx context.Context, prompt, text string) (string, error) {
	if uc.classifier == nil {
		return "", &repo.ClassifierError{Kind: "service", Err: errNotConfigured}
	}
	return uc.classifier.ClassifyRaw(ctx, prompt, text)
}
