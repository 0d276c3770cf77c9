//go:build unit

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/giteasync/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "giteasync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("should load connection defaults", func(t *testing.T) {
		// given
		path := writeConfig(t, `
server_url: https://git.example.com
username: tester
default_branch: develop
insecure_skip_verify: true
`)

		// when
		cfg, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://git.example.com", cfg.ServerURL)
		assert.Equal(t, "tester", cfg.Username)
		assert.Equal(t, "develop", cfg.DefaultBranch)
		assert.True(t, cfg.InsecureSkipVerify)
	})

	t.Run("should default the branch to main", func(t *testing.T) {
		// given
		path := writeConfig(t, `server_url: https://git.example.com`)

		// when
		cfg, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "main", cfg.DefaultBranch)
	})

	t.Run("should expand environment variables in string fields", func(t *testing.T) {
		// given
		t.Setenv("GITEASYNC_TEST_HOST", "git.internal.example.com")
		path := writeConfig(t, `
server_url: https://${GITEASYNC_TEST_HOST}
username: tester
`)

		// when
		cfg, err := config.Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://git.internal.example.com", cfg.ServerURL)
	})

	t.Run("should reject a config without a server URL", func(t *testing.T) {
		// given
		path := writeConfig(t, `username: tester`)

		// when
		_, err := config.Load(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server_url")
	})

	t.Run("should reject a server URL without an HTTP scheme", func(t *testing.T) {
		// given
		path := writeConfig(t, `server_url: git.example.com`)

		// when
		_, err := config.Load(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http")
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		// when
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))

		// then
		require.Error(t, err)
	})
}
