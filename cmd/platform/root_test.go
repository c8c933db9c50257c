package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv_KeepsProcessEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nPLATFORM_TEST_ONLY_IN_FILE=yes\n"), 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PLATFORM_TEST_ONLY_IN_FILE", "")
	require.NoError(t, os.Unsetenv("PLATFORM_TEST_ONLY_IN_FILE"))

	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "from-env", os.Getenv("JWT_SECRET"))
	assert.Equal(t, "yes", os.Getenv("PLATFORM_TEST_ONLY_IN_FILE"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.Error(t, loadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
