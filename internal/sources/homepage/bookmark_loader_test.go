package homepage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleBookmarks = `---
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
    - Go docs:
        - icon: go.svg
          href: https://go.dev/doc
          description: Language reference
- Social:
    - Reddit:
        - abbr: RE
          href: https://reddit.com/
    - Broken:
        - abbr: BR
`

func TestBookmarkLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "bookmarks.yaml")

	if err := os.WriteFile(yamlPath, []byte(sampleBookmarks), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	config, err := NewBookmarkLoader(yamlPath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(config) != 2 {
		t.Fatalf("Load() returned %d categories, want 2", len(config))
	}
}

func TestBookmarkLoaderLoadFileNotFound(t *testing.T) {
	if _, err := NewBookmarkLoader("/nonexistent/bookmarks.yaml").Load(); err == nil {
		t.Error("Load() expected error for nonexistent file")
	}
}

func TestParseBookmarksWithTemplateVariables(t *testing.T) {
	yamlContent := `---
- Home:
    - Router:
        - abbr: RT
          href: {{HOMEPAGE_VAR_ROUTER_URL}}
`
	config, err := ParseBookmarks(strings.NewReader(yamlContent))
	if err != nil {
		t.Fatalf("ParseBookmarks() error = %v", err)
	}
	if len(config) != 1 {
		t.Fatalf("ParseBookmarks() returned %d categories, want 1", len(config))
	}
}

func TestParseBookmarksInvalidYAML(t *testing.T) {
	if _, err := ParseBookmarks(strings.NewReader("- Developer: [unclosed")); err == nil {
		t.Error("ParseBookmarks() expected error for invalid yaml")
	}
}

func TestStripTemplateVariables(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single variable", "href: {{HOMEPAGE_VAR_URL}}", `href: ""`},
		{"no variable", "href: https://example.com", "href: https://example.com"},
		{"two variables", "{{A}} and {{B}}", `"" and ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(stripTemplateVariables([]byte(tt.input))); got != tt.want {
				t.Errorf("stripTemplateVariables() = %q, want %q", got, tt.want)
			}
		})
	}
}
