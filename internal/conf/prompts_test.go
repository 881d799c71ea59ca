package conf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPromptsCarryPolicy(t *testing.T) {
	config := DefaultPromptsConfig()

	if !strings.Contains(config.Filter.Preamble, "Return ONLY valid JSON") {
		t.Error("preamble must state the JSON-only response contract")
	}
	if !strings.Contains(config.Filter.Closing, "ALWAYS err on the side of allowing it") {
		t.Error("closing must carry the ambiguity bias instruction")
	}
}

func TestLoadPromptsConfigMissingFile(t *testing.T) {
	config, err := LoadPromptsConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file must fall back to defaults: %v", err)
	}
	if config.Filter.Preamble != DefaultPreamble {
		t.Error("missing file must yield the default preamble")
	}
}

func TestLoadPromptsConfigPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	content := `
filter:
  preamble: "Custom preamble\n"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadPromptsConfig(path)
	if err != nil {
		t.Fatalf("LoadPromptsConfig: %v", err)
	}
	if config.Filter.Preamble != "Custom preamble\n" {
		t.Errorf("preamble not overridden: %q", config.Filter.Preamble)
	}
	if config.Filter.Closing != DefaultClosing {
		t.Error("unset sections must fall back to defaults")
	}
}
