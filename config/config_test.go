// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mdhender/astrepr/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ASTREPR_INPUT", "ASTREPR_NO_COMMENTS", "ASTREPR_SANITIZE_IDENTIFIERS", "ASTREPR_DB", "ASTREPR_CACHE_SIZE"} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, &config.Config{Input: config.DefaultInput, CacheSize: config.DefaultCacheSize}, cfg)
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASTREPR_INPUT", "dump.txt")
	t.Setenv("ASTREPR_NO_COMMENTS", "true")
	t.Setenv("ASTREPR_SANITIZE_IDENTIFIERS", "1")
	t.Setenv("ASTREPR_DB", "stats.db")
	t.Setenv("ASTREPR_CACHE_SIZE", "0")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, &config.Config{
		Input:               "dump.txt",
		NoComments:          true,
		SanitizeIdentifiers: true,
		Database:            "stats.db",
		CacheSize:           0,
	}, cfg)
}

func TestFromEnvInvalid(t *testing.T) {
	for key, value := range map[string]string{
		"ASTREPR_NO_COMMENTS":          "sometimes",
		"ASTREPR_SANITIZE_IDENTIFIERS": "yes please",
		"ASTREPR_CACHE_SIZE":           "-1",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := config.FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, so
	// unset the ones the file provides
	require.NoError(t, os.Unsetenv("ASTREPR_INPUT"))
	require.NoError(t, os.Unsetenv("ASTREPR_CACHE_SIZE"))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ASTREPR_INPUT=from-file.txt\nASTREPR_CACHE_SIZE=16\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file.txt", cfg.Input)
	assert.Equal(t, 16, cfg.CacheSize)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
