package domain

// Profile is a named moderation profile: the behavioral patterns the
// classifier is asked to watch for and the error-fallback policy.
// Profiles are loaded once at startup and never mutated.
type Profile struct {
	// Name is the unique config key, e.g. "manipulative_coparent".
	Name string
	// DisplayName is the human-readable name injected into the prompt.
	DisplayName string
	// Description is shown in /profile replies. Not part of the prompt.
	Description string
	// Behaviors are the patterns to watch for, one instruction line each.
	// Empty means no targeted patterns.
	Behaviors []string
	// Permissive controls the fallback when the classifier is unreachable:
	// true allows the message through, false blocks it.
	Permissive bool
}
