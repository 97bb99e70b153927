// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package config loads command defaults from the environment and
// optional .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultInput     = "desugared-ast-repr.txt"
	DefaultCacheSize = 128
)

type Config struct {
	Input               string // dump to convert when no argument is given
	NoComments          bool   // suppress position comments
	SanitizeIdentifiers bool
	Database            string // stats database path; empty means in-memory
	CacheSize           int
}

// Load reads the named .env files (".env" when none are named) into the
// process environment and then returns FromEnv. Variables that are
// already set are not overridden. A missing default .env is not an error.
func Load(filenames ...string) (*Config, error) {
	if err := godotenv.Load(filenames...); err != nil && len(filenames) != 0 {
		return nil, fmt.Errorf("load env: %w", err)
	}
	return FromEnv()
}

// FromEnv returns the configuration from the ASTREPR_* variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Input:     firstNonEmpty(strings.TrimSpace(os.Getenv("ASTREPR_INPUT")), DefaultInput),
		Database:  strings.TrimSpace(os.Getenv("ASTREPR_DB")),
		CacheSize: DefaultCacheSize,
	}
	var err error
	if cfg.NoComments, err = envBool("ASTREPR_NO_COMMENTS"); err != nil {
		return nil, err
	}
	if cfg.SanitizeIdentifiers, err = envBool("ASTREPR_SANITIZE_IDENTIFIERS"); err != nil {
		return nil, err
	}
	if raw := strings.TrimSpace(os.Getenv("ASTREPR_CACHE_SIZE")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("ASTREPR_CACHE_SIZE: invalid value %q", raw)
		}
		cfg.CacheSize = n
	}
	return cfg, nil
}

func envBool(key string) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: invalid value %q", key, raw)
	}
	return v, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
