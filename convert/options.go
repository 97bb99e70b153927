// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package convert

import (
	"fmt"
	"log/slog"

	"github.com/mdhender/astrepr/renderer"
	"github.com/spf13/afero"
)

type Option func(c *Converter) error

// WithFS sets the filesystem used by ConvertFile.
func WithFS(fs afero.Fs) Option {
	return func(c *Converter) error {
		if fs == nil {
			return fmt.Errorf("nil filesystem")
		}
		c.fs = fs
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithCacheSize sets the number of results kept in memory.
// Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(c *Converter) error {
		if n < 0 {
			return fmt.Errorf("cache size %d: must not be negative", n)
		}
		c.cacheSize = n
		return nil
	}
}

// WithRenderer passes options through to the renderer.
func WithRenderer(options ...renderer.Option) Option {
	return func(c *Converter) error {
		c.rendererOptions = append(c.rendererOptions, options...)
		return nil
	}
}
