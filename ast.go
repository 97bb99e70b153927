// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package astrepr

// Syntax is the closed set of typed nodes produced by Build.
//
// Every variant keeps the generic node it was built from so that
// renderers can reach its position and, for Other, its raw payload.
// Known kinds have their children assigned to named roles; anything
// else, including known kinds whose shape does not fit, is an *Other.
type Syntax interface {
	Node() *Node
	syntax()
}

type base struct {
	node *Node
}

// Node returns the generic node this value was built from.
func (b base) Node() *Node { return b.node }

func (base) syntax() {}

type File struct {
	base
	Name  string
	Decls []Syntax // PackageSpec, ImportSpec, ClassDecl, MainDecl or Other
}

type PackageSpec struct {
	base
	Name string
}

type ImportSpec struct {
	base
	Prefix string // from "prefixPaths"
	Item   string // the label; "*" or empty for a wildcard import
}

// Wildcard reports whether the import brings in every member of the prefix.
func (i *ImportSpec) Wildcard() bool {
	return i.Item == "" || i.Item == "*"
}

// TypeRef is a rendered-ready type name with optional type arguments.
type TypeRef struct {
	Name string
	Args []TypeRef
}

type Param struct {
	Name string
	Type TypeRef
}

type ClassDecl struct {
	base
	Name     string
	Inherits []TypeRef
	Members  []Syntax // FuncDecl, VarDecl or Other
}

type FuncDecl struct {
	base
	Name   string
	Params []Param
	Result TypeRef
	Body   *Block // nil when the dump has no body
}

// IsInit reports whether the function is a constructor.
func (f *FuncDecl) IsInit() bool {
	return f.Name == "init"
}

type MainDecl struct {
	base
	Body *Block
}

type VarDecl struct {
	base
	Name string
	Type *TypeRef // nil when the dump omits it
	Init Syntax   // nil when there is no initializer
}

type Block struct {
	base
	Stmts []Syntax
}

type CallExpr struct {
	base
	Callee Syntax // RefExpr or MemberAccess
	Args   []Syntax
}

type MemberAccess struct {
	base
	Base  Syntax // nil when the field stands alone
	Field string
}

type RefExpr struct {
	base
	Name string
}

// LitKind is the rendering family of a literal constant.
type LitKind int

const (
	LitOther LitKind = iota
	LitString
	LitInteger
	LitBool
	LitUnit
)

type LitConst struct {
	base
	Kind    LitKind
	Subkind string // as written in the dump, e.g. "String"
	Value   string
}

type AssignExpr struct {
	base
	Left  Syntax // nil when the dump only carries the right-hand side
	Right Syntax
}

type BinaryExpr struct {
	base
	Op          string
	Left, Right Syntax
}

type IfExpr struct {
	base
	Cond Syntax // nil renders as true
	Then *Block
	Else *Block
}

type MatchExpr struct {
	base
	Selector Syntax
	Cases    []MatchCase
}

// PatternKind says how a match pattern was resolved.
type PatternKind int

const (
	PatternUnknown PatternKind = iota
	PatternWildcard
	PatternTyped
)

type Pattern struct {
	Kind PatternKind
	Name string // wildcard token or bound variable
	Type string // PatternTyped only
}

type MatchCase struct {
	Node    *Node
	Pattern Pattern
	Body    []Syntax
}

type LambdaExpr struct {
	base
	Params []string
	Body   *Block
}

type TryExpr struct {
	base
	Body    *Block
	Catches []CatchClause
	Finally *Block
}

type CatchClause struct {
	Node  *Node
	Bound bool // false for a bare "catch"
	Var   string
	Type  string
	Body  *Block
}

type ReturnExpr struct {
	base
	Value Syntax // nil for a bare return
}

type ThrowExpr struct {
	base
	Value Syntax
}

// Other is a node the generator has no dedicated rendering for.
type Other struct {
	base
}

// Walk traverses the typed tree in pre-order. If fn returns false,
// the value's descendants are skipped. Nil values are not visited.
func Walk(s Syntax, fn func(Syntax) bool) {
	if isNil(s) || !fn(s) {
		return
	}
	walkBlock := func(b *Block) {
		if b != nil {
			Walk(b, fn)
		}
	}
	switch s := s.(type) {
	case *File:
		for _, d := range s.Decls {
			Walk(d, fn)
		}
	case *ClassDecl:
		for _, m := range s.Members {
			Walk(m, fn)
		}
	case *FuncDecl:
		walkBlock(s.Body)
	case *MainDecl:
		walkBlock(s.Body)
	case *VarDecl:
		Walk(s.Init, fn)
	case *Block:
		for _, st := range s.Stmts {
			Walk(st, fn)
		}
	case *CallExpr:
		Walk(s.Callee, fn)
		for _, a := range s.Args {
			Walk(a, fn)
		}
	case *MemberAccess:
		Walk(s.Base, fn)
	case *AssignExpr:
		Walk(s.Left, fn)
		Walk(s.Right, fn)
	case *BinaryExpr:
		Walk(s.Left, fn)
		Walk(s.Right, fn)
	case *IfExpr:
		Walk(s.Cond, fn)
		walkBlock(s.Then)
		walkBlock(s.Else)
	case *MatchExpr:
		Walk(s.Selector, fn)
		for _, c := range s.Cases {
			for _, st := range c.Body {
				Walk(st, fn)
			}
		}
	case *LambdaExpr:
		walkBlock(s.Body)
	case *TryExpr:
		walkBlock(s.Body)
		for _, c := range s.Catches {
			walkBlock(c.Body)
		}
		walkBlock(s.Finally)
	case *ReturnExpr:
		Walk(s.Value, fn)
	case *ThrowExpr:
		Walk(s.Value, fn)
	case *PackageSpec, *ImportSpec, *RefExpr, *LitConst, *Other:
		// leaves
	}
}

// Unrecognized returns the generic nodes that were built as Other.
func Unrecognized(s Syntax) []*Node {
	var list []*Node
	Walk(s, func(s Syntax) bool {
		if o, ok := s.(*Other); ok {
			list = append(list, o.Node())
		}
		return true
	})
	return list
}

// isNil catches both a nil interface and a typed nil pointer.
func isNil(s Syntax) bool {
	if s == nil {
		return true
	}
	switch s := s.(type) {
	case *Block:
		return s == nil
	case *Other:
		return s == nil
	}
	return false
}
