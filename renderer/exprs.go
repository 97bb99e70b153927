// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package renderer

import (
	"strings"

	"github.com/mdhender/astrepr"
)

// stmt renders a statement on its own line at indent, preceded by its
// position comment. Continuation lines of multi-line expressions are
// re-indented to line up with the statement.
func (r *Renderer) stmt(s astrepr.Syntax, indent string) string {
	pos := r.positionComment(s.Node(), indent)
	switch s := s.(type) {
	case *astrepr.VarDecl:
		return pos + indent + r.varDecl(s, indent)
	case *astrepr.ReturnExpr:
		if s.Value == nil {
			return pos + indent + "return ()"
		}
		return pos + indent + "return " + embed(r.expr(s.Value), indent)
	case *astrepr.ThrowExpr:
		if s.Value == nil {
			return pos + indent + "throw"
		}
		return pos + indent + "throw " + embed(r.expr(s.Value), indent)
	case *astrepr.FuncDecl, *astrepr.ClassDecl:
		return r.decl(s, indent)
	}
	return pos + indent + embed(r.expr(s), indent)
}

// expr renders an expression as if it started at column zero. The first
// line carries no indentation; later lines are indented relative to it.
func (r *Renderer) expr(s astrepr.Syntax) string {
	switch s := s.(type) {
	case nil:
		return ""
	case *astrepr.RefExpr:
		if s.Name == "" {
			return "?"
		}
		return r.ident(s.Name)
	case *astrepr.LitConst:
		return literal(s)
	case *astrepr.CallExpr:
		return r.callExpr(s)
	case *astrepr.MemberAccess:
		if s.Base == nil {
			return r.ident(s.Field)
		}
		return r.expr(s.Base) + "." + r.ident(s.Field)
	case *astrepr.Block:
		return r.braces("", s, "")
	case *astrepr.AssignExpr:
		if s.Left == nil {
			return "= " + r.expr(s.Right)
		}
		return r.expr(s.Left) + " = " + r.expr(s.Right)
	case *astrepr.BinaryExpr:
		return "(" + r.expr(s.Left) + " " + s.Op + " " + r.expr(s.Right) + ")"
	case *astrepr.IfExpr:
		return r.ifExpr(s)
	case *astrepr.MatchExpr:
		return r.matchExpr(s)
	case *astrepr.LambdaExpr:
		return r.lambdaExpr(s)
	case *astrepr.TryExpr:
		return r.tryExpr(s)
	case *astrepr.ReturnExpr:
		if s.Value == nil {
			return "return ()"
		}
		return "return " + r.expr(s.Value)
	case *astrepr.ThrowExpr:
		if s.Value == nil {
			return "throw"
		}
		return "throw " + r.expr(s.Value)
	case *astrepr.VarDecl:
		return r.varDecl(s, "")
	case *astrepr.Other:
		return placeholder(s.Node())
	case *astrepr.File:
		// a File only makes sense at the root
		return placeholder(s.Node())
	}
	// declarations used where an expression was expected
	return r.decl(s, "")
}

func literal(l *astrepr.LitConst) string {
	switch l.Kind {
	case astrepr.LitString:
		return `"` + l.Value + `"`
	case astrepr.LitInteger:
		if l.Value == "" {
			return "0"
		}
		return l.Value
	case astrepr.LitBool:
		if l.Value == "true" {
			return "true"
		}
		return "false"
	}
	if l.Value == "" {
		return "()"
	}
	return l.Value
}

func (r *Renderer) callExpr(c *astrepr.CallExpr) string {
	// "Foo.init(...)" is how the dump spells a constructor call
	callee := strings.TrimSuffix(r.expr(c.Callee), ".init")
	args := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, r.expr(a))
	}
	return callee + "(" + strings.Join(args, ", ") + ")"
}

func (r *Renderer) ifExpr(e *astrepr.IfExpr) string {
	cond := "true"
	if e.Cond != nil {
		cond = r.expr(e.Cond)
	}
	text := r.braces("if ("+cond+") ", e.Then, "")
	if e.Else == nil {
		return text
	}
	// else-if chains stay flat
	if len(e.Else.Stmts) == 1 {
		if elif, ok := e.Else.Stmts[0].(*astrepr.IfExpr); ok {
			return text + " else " + r.ifExpr(elif)
		}
	}
	return text + " " + r.braces("else ", e.Else, "")
}

func (r *Renderer) matchExpr(m *astrepr.MatchExpr) string {
	var sb strings.Builder
	sb.WriteString("match (" + r.expr(m.Selector) + ") {")
	for _, c := range m.Cases {
		sb.WriteString("\n" + r.cfg.Indent + "case " + r.pattern(c.Pattern) + " =>")
		if body := r.stmts(c.Body, r.cfg.Indent+r.cfg.Indent); body != "" {
			sb.WriteString("\n" + body)
		}
	}
	sb.WriteString("\n}")
	return sb.String()
}

func (r *Renderer) pattern(p astrepr.Pattern) string {
	switch p.Kind {
	case astrepr.PatternWildcard:
		return r.ident(p.Name)
	case astrepr.PatternTyped:
		return r.ident(p.Name) + ": " + r.ident(p.Type)
	}
	return "?"
}

func (r *Renderer) lambdaExpr(l *astrepr.LambdaExpr) string {
	params := make([]string, 0, len(l.Params))
	for _, p := range l.Params {
		params = append(params, r.ident(p))
	}
	if l.Body == nil && len(params) == 0 {
		return "{ }"
	}
	head := "{ " + strings.Join(params, ", ") + " =>"
	if len(params) == 0 {
		head = "{ =>"
	}
	body := r.body(l.Body, r.cfg.Indent)
	if body == "" {
		return head + "\n}"
	}
	return head + "\n" + body + "\n}"
}

func (r *Renderer) tryExpr(t *astrepr.TryExpr) string {
	text := r.braces("try ", t.Body, "")
	for _, c := range t.Catches {
		head := "catch "
		if c.Bound {
			head = "catch (" + r.ident(c.Var) + ": " + r.ident(c.Type) + ") "
		}
		text += " " + r.braces(head, c.Body, "")
	}
	if t.Finally != nil {
		text += " " + r.braces("finally ", t.Finally, "")
	}
	return text
}
