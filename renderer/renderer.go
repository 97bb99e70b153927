// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package renderer reconstructs approximate Cangjie source from the typed
// syntax built by astrepr.Build.
//
// Rendering never fails. Anything the renderer does not recognize is
// written as a placeholder comment that names the node's kind, label and
// first few properties, so one odd subtree never hides the rest of the file.
package renderer

import (
	"strings"

	"github.com/mdhender/astrepr"
)

// Config is the immutable rendering configuration.
type Config struct {
	PositionComments    bool
	SanitizeIdentifiers bool
	Indent              string
}

// Renderer holds only its configuration and is safe for concurrent use.
type Renderer struct {
	cfg Config
}

func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: Config{
			PositionComments: true,
			Indent:           "    ",
		},
	}
	for _, option := range options {
		err := option(r)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Config returns a copy of the renderer's configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Render returns the source text for a file. Declarations are separated
// by a blank line and the text ends with a newline.
func (r *Renderer) Render(f *astrepr.File) string {
	if f == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(r.positionComment(f.Node(), ""))
	for i, d := range f.Decls {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(r.decl(d, ""))
	}
	sb.WriteByte('\n')
	return sb.String()
}

// RenderNode builds and renders a single generic node.
func (r *Renderer) RenderNode(n *astrepr.Node) string {
	if n == nil {
		return ""
	}
	return r.RenderSyntax(astrepr.BuildSyntax(n))
}

// RenderSyntax renders any typed value as if it started a line.
func (r *Renderer) RenderSyntax(s astrepr.Syntax) string {
	switch s := s.(type) {
	case nil:
		return ""
	case *astrepr.File:
		return r.Render(s)
	case *astrepr.PackageSpec, *astrepr.ImportSpec, *astrepr.ClassDecl, *astrepr.FuncDecl, *astrepr.MainDecl:
		return r.decl(s, "")
	}
	return r.stmt(s, "")
}

// positionComment returns the position line for n, including its
// trailing newline, or an empty string.
func (r *Renderer) positionComment(n *astrepr.Node, indent string) string {
	if !r.cfg.PositionComments {
		return ""
	}
	pos := n.Position()
	if pos == "" {
		return ""
	}
	return indent + "// position: " + pos + "\n"
}

// ident applies identifier sanitization when it is enabled.
func (r *Renderer) ident(name string) string {
	if !r.cfg.SanitizeIdentifiers {
		return name
	}
	return SanitizeIdentifier(name)
}

// SanitizeIdentifier replaces '-' with "__" and '$' with "dollar_".
func SanitizeIdentifier(name string) string {
	name = strings.ReplaceAll(name, "-", "__")
	return strings.ReplaceAll(name, "$", "dollar_")
}

// placeholder renders a node that has no dedicated rendering.
func placeholder(n *astrepr.Node) string {
	info := n.Kind + ":"
	if label := strings.TrimSpace(n.Label); label != "" {
		info += " " + label
	}
	for i, key := range n.PropKeys() {
		if i == 3 {
			break
		}
		info += " " + key + "=" + n.Props[key]
	}
	// a stray terminator would end the comment early
	return "/* " + strings.ReplaceAll(info, "*/", "* /") + " */"
}
