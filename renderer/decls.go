// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package renderer

import (
	"strings"

	"github.com/mdhender/astrepr"
)

// decl renders a declaration starting at indent, preceded by its
// position comment.
func (r *Renderer) decl(s astrepr.Syntax, indent string) string {
	pos := r.positionComment(s.Node(), indent)
	switch s := s.(type) {
	case *astrepr.PackageSpec:
		name := s.Name
		if name == "" {
			name = "?"
		}
		return pos + indent + "package " + name
	case *astrepr.ImportSpec:
		return pos + indent + "import " + importPath(s)
	case *astrepr.ClassDecl:
		return pos + r.classDecl(s, indent)
	case *astrepr.FuncDecl:
		return pos + r.funcDecl(s, indent)
	case *astrepr.MainDecl:
		return pos + indent + r.braces("main() ", s.Body, indent)
	case *astrepr.VarDecl:
		return pos + indent + r.varDecl(s, indent)
	case *astrepr.Other:
		return pos + indent + placeholder(s.Node())
	}
	return r.stmt(s, indent)
}

func importPath(s *astrepr.ImportSpec) string {
	item := "{" + s.Item + "}"
	if s.Wildcard() {
		item = "*"
	}
	if s.Prefix == "" {
		return item
	}
	return s.Prefix + "." + item
}

func (r *Renderer) classDecl(c *astrepr.ClassDecl, indent string) string {
	var sb strings.Builder
	sb.WriteString(indent + "class " + r.ident(c.Name))
	if len(c.Inherits) != 0 {
		bases := make([]string, 0, len(c.Inherits))
		for _, t := range c.Inherits {
			bases = append(bases, r.typeRef(t))
		}
		sb.WriteString(" <: " + strings.Join(bases, ", "))
	}
	sb.WriteString(" {\n")
	for i, m := range c.Members {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(r.decl(m, indent+r.cfg.Indent))
	}
	if len(c.Members) != 0 {
		sb.WriteByte('\n')
	}
	sb.WriteString(indent + "}")
	return sb.String()
}

func (r *Renderer) funcDecl(f *astrepr.FuncDecl, indent string) string {
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, r.ident(p.Name)+": "+r.typeRef(p.Type))
	}
	head := "init(" + strings.Join(params, ", ") + ") "
	if !f.IsInit() {
		head = "func " + r.ident(f.Name) + "(" + strings.Join(params, ", ") + "): " + r.typeRef(f.Result) + " "
	}
	return indent + r.braces(head, f.Body, indent)
}

// varDecl renders "let name[: type][ = init]" without the leading indent.
func (r *Renderer) varDecl(v *astrepr.VarDecl, indent string) string {
	text := "let " + r.ident(v.Name)
	if v.Type != nil {
		text += ": " + r.typeRef(*v.Type)
	}
	if v.Init == nil {
		return text
	}
	return text + " = " + embed(r.expr(v.Init), indent)
}

func (r *Renderer) typeRef(t astrepr.TypeRef) string {
	name := r.ident(t.Name)
	if len(t.Args) == 0 {
		return name
	}
	args := make([]string, 0, len(t.Args))
	for _, a := range t.Args {
		args = append(args, r.typeRef(a))
	}
	return name + "<" + strings.Join(args, ", ") + ">"
}

// braces renders head followed by the block's statements, one level
// deeper than indent, and a closing brace at indent. The head is not
// indented.
func (r *Renderer) braces(head string, b *astrepr.Block, indent string) string {
	body := r.body(b, indent+r.cfg.Indent)
	if body == "" {
		return head + "{\n" + indent + "}"
	}
	return head + "{\n" + body + "\n" + indent + "}"
}

// body renders each statement of the block on its own line at indent.
func (r *Renderer) body(b *astrepr.Block, indent string) string {
	if b == nil {
		return ""
	}
	return r.stmts(b.Stmts, indent)
}

func (r *Renderer) stmts(list []astrepr.Syntax, indent string) string {
	lines := make([]string, 0, len(list))
	for _, st := range list {
		lines = append(lines, r.stmt(st, indent))
	}
	return strings.Join(lines, "\n")
}
