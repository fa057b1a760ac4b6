package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/webmark/internal/auth"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("WEBMARK_JWT_SECRET", "cli-secret")
	t.Setenv("WEBMARK_JWT_ISSUER", "")

	out, _, err := execute(t, "token", "--user", "alice", "--ttl", "1h")
	require.NoError(t, err)

	userID, err := auth.NewJWT("cli-secret", "").Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)
}

func TestTokenCommandWithoutSecret(t *testing.T) {
	t.Setenv("WEBMARK_JWT_SECRET", "")

	_, _, err := execute(t, "token", "--user", "alice")
	assert.Error(t, err)
}

func TestImportDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.yaml")
	content := `---
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
    - Nowhere:
        - abbr: NW
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, errOut, err := execute(t, "import", "--user", "alice", "--file", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Developer (1 bookmarks)")
	assert.Contains(t, out, "Github -> https://github.com/")
	assert.Contains(t, errOut, "skipped Developer/Nowhere: missing href")
}

func TestImportMissingFile(t *testing.T) {
	_, _, err := execute(t, "import", "--user", "alice", "--file", "/nonexistent/bookmarks.yaml", "--dry-run")
	assert.Error(t, err)
}
