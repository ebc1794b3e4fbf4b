package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/repo-insight/internal/middleware"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenCmd(t *testing.T) {
	out, err := execute(t, "token", "alice", "--secret", "s3cret", "--ttl", "1h")
	require.NoError(t, err)

	owner, err := middleware.ParseToken("s3cret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)
}

func TestTokenCmd_FromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	out, err := execute(t, "token", "bob")
	require.NoError(t, err)

	owner, err := middleware.ParseToken("env-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "bob", owner)
}

func TestTokenCmd_Errors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	missing := filepath.Join(t.TempDir(), "none.yaml")

	_, err := execute(t, "token", "alice", "--config", missing)
	assert.ErrorContains(t, err, "config load failed")

	_, err = execute(t, "token", "bad owner", "--secret", "s")
	assert.Error(t, err)

	_, err = execute(t, "token")
	assert.Error(t, err)
}

func TestRunCmd_ValidatesBeforeConnecting(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")

	_, err := execute(t, "run", " ", "--config", missing)
	assert.ErrorContains(t, err, "repoUrl is required")

	_, err = execute(t, "run", "o/r", "--owner", "", "--config", missing)
	assert.ErrorContains(t, err, "owner ID")

	_, err = execute(t, "run", "o/r", "--config", missing, "--timeout", time.Second.String())
	assert.ErrorContains(t, err, "config load")
}
