// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package convert runs the whole dump-to-source conversion: read, parse,
// build, render and, optionally, write.
package convert

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mdhender/astrepr"
	"github.com/mdhender/astrepr/renderer"
	"github.com/spf13/afero"
)

// Converter turns AST repr dumps into source text. It is safe for
// concurrent use.
type Converter struct {
	fs       afero.Fs
	logger   *slog.Logger
	renderer *renderer.Renderer

	cacheSize       int
	cache           *lru.Cache[string, *Result]
	rendererOptions []renderer.Option
}

// Result is the outcome of one conversion. Results may be shared through
// the cache; callers must not modify the maps or slices.
type Result struct {
	Name        string
	SHA256      string
	Output      string
	Kinds       map[string]int // node count per kind in the parsed tree
	Unknown     map[string]int // placeholder count per kind
	Diagnostics []astrepr.Diagnostic
	Cached      bool
}

// Nodes returns the total number of nodes in the parsed tree.
func (r *Result) Nodes() int {
	total := 0
	for _, n := range r.Kinds {
		total += n
	}
	return total
}

// Placeholders returns the number of nodes rendered as placeholders.
func (r *Result) Placeholders() int {
	total := 0
	for _, n := range r.Unknown {
		total += n
	}
	return total
}

// New creates a new Converter.
func New(options ...Option) (*Converter, error) {
	c := &Converter{
		fs:        afero.NewOsFs(),
		logger:    slog.Default(),
		cacheSize: 128,
	}
	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}
	r, err := renderer.New(c.rendererOptions...)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	c.renderer = r
	if c.cacheSize > 0 {
		c.cache, err = lru.New[string, *Result](c.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
	}
	return c, nil
}

// SetFS sets the filesystem for testing.
func (c *Converter) SetFS(fs afero.Fs) {
	c.fs = fs
}

// Renderer returns the renderer used for every conversion.
func (c *Converter) Renderer() *renderer.Renderer {
	return c.renderer
}

// Exists reports whether path names an existing regular file.
func (c *Converter) Exists(path string) (bool, error) {
	fi, err := c.fs.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, &ErrReadFile{Op: "stat", Path: path, Err: err}
	}
	return fi.Mode().IsRegular(), nil
}

// Convert parses and renders a fully buffered dump. Name is used for
// diagnostics only. A malformed root is returned as *astrepr.FormatError.
func (c *Converter) Convert(ctx context.Context, name string, input []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()

	hash := sha256.Sum256(input)
	hashStr := hex.EncodeToString(hash[:])
	key := hashStr + "|" + configKey(c.renderer.Config())
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			res := *cached
			res.Name, res.Cached = name, true
			c.logger.DebugContext(ctx, "convert: cache hit", "source", name, "sha256", hashStr)
			return &res, nil
		}
	}

	root, diagnostics, err := astrepr.Parse(ctx, name, input, c.logger)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file := astrepr.Build(root)
	unknown := make(map[string]int)
	for _, n := range astrepr.Unrecognized(file) {
		unknown[n.Kind]++
	}
	res := &Result{
		Name:        name,
		SHA256:      hashStr,
		Output:      c.renderer.Render(file),
		Kinds:       astrepr.CountKinds(root),
		Unknown:     unknown,
		Diagnostics: diagnostics,
	}
	if c.cache != nil {
		c.cache.Add(key, res)
	}
	c.logger.DebugContext(ctx, "convert: rendered", "source", name, "nodes", res.Nodes(), "placeholders", res.Placeholders(), "elapsed", time.Since(started))

	out := *res
	return &out, nil
}

// ConvertFile converts the file at inputPath. When outputPath is not
// empty, the rendered text is also written there, creating parent
// directories as needed.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	data, err := afero.ReadFile(c.fs, inputPath)
	if err != nil {
		return nil, &ErrReadFile{Op: "read", Path: inputPath, Err: err}
	}

	res, err := c.Convert(ctx, inputPath, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", inputPath, err)
	}

	if outputPath == "" {
		return res, nil
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := c.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, &ErrWriteFile{Op: "mkdir", Path: dir, Err: err}
		}
	}
	if err := afero.WriteFile(c.fs, outputPath, []byte(res.Output), 0o644); err != nil {
		return nil, &ErrWriteFile{Op: "write", Path: outputPath, Err: err}
	}
	return res, nil
}

func configKey(cfg renderer.Config) string {
	return fmt.Sprintf("%t|%t|%q", cfg.PositionComments, cfg.SanitizeIdentifiers, cfg.Indent)
}
