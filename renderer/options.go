// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package renderer

import (
	"fmt"
	"strings"
)

type Option func(r *Renderer) error

// WithPositionComments controls the "// position: ..." line emitted in
// front of declarations and statements that carry a position.
func WithPositionComments(flag bool) Option {
	return func(r *Renderer) error {
		r.cfg.PositionComments = flag
		return nil
	}
}

// WithSanitizeIdentifiers rewrites '-' as "__" and '$' as "dollar_" in
// every emitted identifier so the output passes a standard lexer.
func WithSanitizeIdentifiers(flag bool) Option {
	return func(r *Renderer) error {
		r.cfg.SanitizeIdentifiers = flag
		return nil
	}
}

// WithIndent sets the text used for one level of nesting.
func WithIndent(indent string) Option {
	return func(r *Renderer) error {
		if strings.Trim(indent, " \t") != "" {
			return fmt.Errorf("indent %q: must contain only spaces or tabs", indent)
		}
		r.cfg.Indent = indent
		return nil
	}
}
