package conf

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/coparenthq/feishu-moderator/internal/biz/domain"
)

// DefaultProfileName is used when MODERATION_PROFILE is unset.
const DefaultProfileName = "manipulative_coparent"

// StandardProfileName is the fallback for unknown profile names.
const StandardProfileName = "standard"

// ProfileStore holds the named moderation profiles. It is built once at
// startup and read-only afterwards.
type ProfileStore struct {
	profiles map[string]domain.Profile
}

// builtinProfiles returns the compiled-in moderation profiles.
func builtinProfiles() map[string]domain.Profile {
	return map[string]domain.Profile{
		"manipulative_coparent": {
			Name:        "manipulative_coparent",
			DisplayName: "Manipulative Co-Parent",
			Description: "Someone who tends toward performative behavior, narrative crafting, and inconsistent actions",
			Behaviors: []string{
				"performative posturing without follow-through",
				"crafting narratives about being good while failing to take positive action",
				"manipulative language designed to appear reasonable",
				"deflection from actual logistics to emotional manipulation",
				"making themselves appear as the victim or hero",
				"saying the right things but consistently failing to act",
				"using guilt, blame, or emotional pressure instead of facts",
				"grandstanding or virtue signaling without substance",
			},
			Permissive: true,
		},
		"standard": {
			Name:        "standard",
			DisplayName: "Standard Moderation",
			Description: "Basic co-parenting topic filtering",
			Behaviors:   nil,
			Permissive:  true,
		},
	}
}

// NewProfileStore builds the store from the built-in profiles.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: builtinProfiles()}
}

// profileYAML is the overlay file shape for a single profile.
type profileYAML struct {
	DisplayName string   `yaml:"display_name"`
	Description string   `yaml:"description"`
	Behaviors   []string `yaml:"behaviors"`
	Permissive  *bool    `yaml:"permissive"`
}

// NewProfileStoreFromFile builds the store from the built-ins merged with an
// optional YAML overlay. A missing path or missing file is not an error; the
// built-ins are used as-is.
func NewProfileStoreFromFile(path string) (*ProfileStore, error) {
	store := NewProfileStore()
	if path == "" {
		return store, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("read profiles config: %w", err)
	}

	var overlay map[string]profileYAML
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse profiles config: %w", err)
	}

	for name, p := range overlay {
		merged, ok := store.profiles[name]
		if !ok {
			merged = domain.Profile{Name: name, Permissive: true}
		}
		if p.DisplayName != "" {
			merged.DisplayName = p.DisplayName
		}
		if merged.DisplayName == "" {
			merged.DisplayName = name
		}
		if p.Description != "" {
			merged.Description = p.Description
		}
		if p.Behaviors != nil {
			merged.Behaviors = p.Behaviors
		}
		if p.Permissive != nil {
			merged.Permissive = *p.Permissive
		}
		store.profiles[name] = merged
	}
	return store, nil
}

// Get returns the profile for name, falling back to the standard profile when
// the name is unknown. Unknown names are a config-time concern caught by
// Config.Validate; here the standard profile keeps the pipeline total.
func (s *ProfileStore) Get(name string) domain.Profile {
	if p, ok := s.profiles[name]; ok {
		return p
	}
	return s.profiles[StandardProfileName]
}

// Has reports whether a profile with the given name exists.
func (s *ProfileStore) Has(name string) bool {
	_, ok := s.profiles[name]
	return ok
}

// Names returns the known profile names, sorted.
func (s *ProfileStore) Names() []string {
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
