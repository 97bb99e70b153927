// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package astrepr

import "strings"

// The builder is the one place that decides which child of a generic node
// plays which role. Renderers only ever see the typed values.

// exprKinds are the kinds that can stand on either side of an assignment.
var exprKinds = []string{"RefExpr", "MemberAccess", "CallExpr", "LitConstExpr", "Block"}

var knownKinds = map[string]bool{}

func init() {
	for _, kind := range []string{
		"File", "PackageSpec", "ImportSpec", "ClassDecl", "ClassBody", "MainDecl",
		"FuncDecl", "FuncBody", "FuncParamList", "FuncParam", "Block", "VarDecl",
		"CallExpr", "BaseFunc", "FuncArg", "RefExpr", "MemberAccess", "LitConstExpr",
		"RefType", "PrimitiveType", "AssignExpr", "BinaryExpr", "IfExpr",
		"MatchExpr", "MatchCase", "LambdaExpr", "TryExpr", "TryBlock", "Catch",
		"CatchPattern", "CatchBlock", "FinallyBlock", "ExceptTypePattern",
		"VarPattern", "WildcardPattern", "TypePattern", "ReturnExpr", "ThrowExpr",
	} {
		knownKinds[kind] = true
	}
}

// IsKnownKind reports whether the generator understands nodes of kind,
// either directly or as part of an enclosing construct.
func IsKnownKind(kind string) bool {
	return knownKinds[kind]
}

// Build converts a parsed File node into its typed form.
// Only PackageSpec, ImportSpec, ClassDecl and MainDecl are file-level
// declarations; any other child, including a FuncDecl or VarDecl, is
// kept as an *Other.
func Build(file *Node) *File {
	f := &File{base: base{node: file}, Name: strings.TrimSpace(file.Label)}
	for _, ch := range file.Children {
		switch ch.Kind {
		case "PackageSpec", "ImportSpec", "ClassDecl", "MainDecl":
			f.Decls = append(f.Decls, BuildSyntax(ch))
		default:
			f.Decls = append(f.Decls, &Other{base{node: ch}})
		}
	}
	return f
}

// BuildSyntax converts any generic node into its typed form.
// It never fails; nodes it cannot place are returned as *Other.
func BuildSyntax(n *Node) Syntax {
	var s Syntax
	switch n.Kind {
	case "File":
		return Build(n)
	case "PackageSpec":
		s = &PackageSpec{base: base{node: n}, Name: strings.TrimSpace(n.Label)}
	case "ImportSpec":
		prefix, _ := n.Prop("prefixPaths")
		s = &ImportSpec{base: base{node: n}, Prefix: prefix, Item: strings.TrimSpace(n.Label)}
	case "ClassDecl":
		s = buildClassDecl(n)
	case "FuncDecl":
		s = buildFuncDecl(n)
	case "MainDecl":
		s = buildMainDecl(n)
	case "VarDecl":
		s = buildVarDecl(n)
	case "Block":
		s = buildBlock(n)
	case "CallExpr":
		s = buildCallExpr(n)
	case "MemberAccess":
		s = buildMemberAccess(n)
	case "RefExpr":
		s = &RefExpr{base: base{node: n}, Name: strings.TrimSpace(n.Label)}
	case "LitConstExpr":
		s = buildLitConst(n)
	case "AssignExpr":
		s = buildAssignExpr(n)
	case "BinaryExpr":
		s = buildBinaryExpr(n)
	case "IfExpr":
		s = buildIfExpr(n)
	case "MatchExpr":
		s = buildMatchExpr(n)
	case "LambdaExpr":
		s = buildLambdaExpr(n)
	case "TryExpr":
		s = buildTryExpr(n)
	case "ReturnExpr":
		r := &ReturnExpr{base: base{node: n}}
		for _, ch := range n.Children {
			if ch.Kind != "ReturnExpr" {
				r.Value = BuildSyntax(ch)
				break
			}
		}
		s = r
	case "ThrowExpr":
		t := &ThrowExpr{base: base{node: n}}
		if len(n.Children) != 0 {
			t.Value = BuildSyntax(n.Children[0])
		}
		s = t
	}
	if s == nil {
		return &Other{base{node: n}}
	}
	return s
}

func buildClassDecl(n *Node) Syntax {
	c := &ClassDecl{base: base{node: n}, Name: strings.TrimSpace(n.Label)}
	for _, t := range n.List("inheritedTypes") {
		c.Inherits = append(c.Inherits, buildType(t))
	}
	for _, body := range n.ChildrenOf("ClassBody") {
		for _, m := range body.Children {
			switch m.Kind {
			case "FuncDecl", "VarDecl":
				c.Members = append(c.Members, BuildSyntax(m))
			default:
				c.Members = append(c.Members, &Other{base{node: m}})
			}
		}
	}
	return c
}

func buildFuncDecl(n *Node) Syntax {
	name := strings.TrimSpace(n.Label)
	// mangled labels look like "foo (Int64, String)"
	if strings.Contains(name, " ") && strings.Contains(name, "(") {
		name = strings.TrimSpace(name[:strings.Index(name, "(")])
	}
	f := &FuncDecl{base: base{node: n}, Name: name, Result: TypeRef{Name: "Unit"}}
	body := n.FirstChild("FuncBody")
	if body == nil {
		return f
	}
	f.Params = buildParams(body)
	for _, ch := range body.Children {
		switch ch.Kind {
		case "RefType", "PrimitiveType":
			f.Result = buildType(ch)
		case "Block":
			if f.Body == nil {
				f.Body = buildBlock(ch)
			}
		}
	}
	return f
}

// paramNodes returns the FuncParam nodes of a FuncBody, taken from a
// "FuncParamList" list when present and from the FuncParamList child
// otherwise.
func paramNodes(body *Node) []*Node {
	list := body.List("FuncParamList")
	if len(list) == 0 {
		list = body.FirstChild("FuncParamList").ChildrenOf("FuncParam")
	}
	var params []*Node
	for _, p := range list {
		if p.Kind == "FuncParam" {
			params = append(params, p)
		}
	}
	return params
}

func buildParams(body *Node) []Param {
	var params []Param
	for _, p := range paramNodes(body) {
		param := Param{Name: labelOr(p, "_"), Type: TypeRef{Name: "Unknown"}}
		if t := p.FirstChild("RefType", "PrimitiveType"); t != nil {
			param.Type = buildType(t)
		}
		params = append(params, param)
	}
	return params
}

func buildMainDecl(n *Node) Syntax {
	m := &MainDecl{base: base{node: n}}
	var fn *Node
	for _, ch := range n.ChildrenOf("FuncDecl") {
		if strings.HasPrefix(strings.TrimSpace(ch.Label), "main") {
			fn = ch
			break
		}
	}
	if fn == nil {
		fn = n.FirstChild("FuncDecl")
	}
	if b := fn.FirstChild("FuncBody").FirstChild("Block"); b != nil {
		m.Body = buildBlock(b)
	}
	return m
}

func buildVarDecl(n *Node) Syntax {
	name := strings.TrimSpace(n.Label)
	if strings.HasPrefix(name, "let ") {
		name = strings.TrimSpace(name[len("let "):])
	}
	if name == "" {
		name = "_"
	}
	v := &VarDecl{base: base{node: n}, Name: name}
	var init *Node
	for _, ch := range n.Children {
		switch {
		case ch.Is("RefType", "PrimitiveType"):
			if v.Type == nil {
				t := buildType(ch)
				v.Type = &t
			}
		case init == nil:
			init = ch
		}
	}
	if init != nil {
		v.Init = BuildSyntax(init)
	}
	return v
}

func buildBlock(n *Node) *Block {
	b := &Block{base: base{node: n}}
	for _, ch := range n.Children {
		b.Stmts = append(b.Stmts, BuildSyntax(ch))
	}
	return b
}

// buildBraceBody builds the body of a branch, case or lambda, where a
// Block holding nothing but another Block is written as one pair of braces.
func buildBraceBody(n *Node) *Block {
	if n == nil {
		return nil
	}
	if len(n.Children) == 1 && n.Children[0].Kind == "Block" {
		return buildBlock(n.Children[0])
	}
	return buildBlock(n)
}

func buildCallExpr(n *Node) Syntax {
	c := &CallExpr{base: base{node: n}}
	if bf := n.FirstChild("BaseFunc"); bf != nil {
		if callee := bf.FirstChild("RefExpr", "MemberAccess"); callee != nil {
			c.Callee = BuildSyntax(callee)
		}
	} else if callee := n.FirstChild("MemberAccess", "RefExpr"); callee != nil {
		c.Callee = BuildSyntax(callee)
	}
	if c.Callee == nil {
		return nil
	}
	for _, arg := range n.List("arguments") {
		if arg.Kind != "FuncArg" {
			c.Args = append(c.Args, BuildSyntax(arg))
			continue
		}
		for _, ch := range arg.Children {
			c.Args = append(c.Args, BuildSyntax(ch))
		}
	}
	return c
}

func buildMemberAccess(n *Node) Syntax {
	field, _ := n.Prop("field")
	if field == "" {
		field = strings.TrimSpace(n.Label)
	}
	m := &MemberAccess{base: base{node: n}, Field: field}
	if b := n.FirstChild("RefExpr", "CallExpr", "MemberAccess"); b != nil {
		m.Base = BuildSyntax(b)
	}
	return m
}

func buildLitConst(n *Node) Syntax {
	subkind := strings.TrimSpace(n.Label)
	if subkind == "" {
		subkind, _ = n.Prop("ty")
	}
	l := &LitConst{base: base{node: n}, Subkind: subkind, Value: strings.TrimSpace(n.Value)}
	switch {
	case strings.Contains(subkind, "String"), strings.Contains(subkind, "string"):
		l.Kind = LitString
	case strings.Contains(subkind, "Int"):
		l.Kind = LitInteger
	case strings.Contains(subkind, "Bool"):
		l.Kind = LitBool
	case strings.Contains(subkind, "Unit"):
		l.Kind = LitUnit
	}
	return l
}

func buildAssignExpr(n *Node) Syntax {
	operands := n.ChildrenOf(exprKinds...)
	switch len(operands) {
	case 1:
		return &AssignExpr{base: base{node: n}, Right: BuildSyntax(operands[0])}
	case 2:
		return &AssignExpr{base: base{node: n}, Left: BuildSyntax(operands[0]), Right: BuildSyntax(operands[1])}
	}
	return nil
}

func buildBinaryExpr(n *Node) Syntax {
	if len(n.Children) != 2 {
		return nil
	}
	op := strings.TrimSpace(n.Label)
	if op == "" {
		op, _ = n.Prop("ty")
	}
	if op == "" {
		op = "?"
	}
	return &BinaryExpr{
		base:  base{node: n},
		Op:    op,
		Left:  BuildSyntax(n.Children[0]),
		Right: BuildSyntax(n.Children[1]),
	}
}

func buildIfExpr(n *Node) Syntax {
	var cond *Node
	var blocks []*Node
	for _, ch := range n.Children {
		if ch.Kind == "Block" {
			blocks = append(blocks, ch)
		} else if cond == nil {
			cond = ch
		}
	}
	if len(blocks) > 2 {
		return nil
	}
	e := &IfExpr{base: base{node: n}}
	if cond != nil {
		e.Cond = BuildSyntax(cond)
	}
	if len(blocks) > 0 {
		e.Then = buildBraceBody(blocks[0])
	}
	if len(blocks) > 1 {
		e.Else = buildBraceBody(blocks[1])
	}
	return e
}

func buildMatchExpr(n *Node) Syntax {
	m := &MatchExpr{base: base{node: n}}
	for _, ch := range n.Children {
		if ch.Kind == "selector" {
			if len(ch.Children) != 0 {
				m.Selector = BuildSyntax(ch.Children[0])
				break
			}
			continue
		}
		if !ch.Is("MatchCase", "patterns") {
			m.Selector = BuildSyntax(ch)
			break
		}
	}
	for _, mc := range n.List("matchCases") {
		if mc.Kind != "MatchCase" {
			continue
		}
		c := MatchCase{Node: mc, Pattern: buildPattern(mc)}
		if stmts := mc.List("exprOrDecls"); len(stmts) != 0 {
			for _, st := range stmts {
				c.Body = append(c.Body, BuildSyntax(st))
			}
		} else if b := buildBraceBody(mc.FirstChild("Block")); b != nil {
			c.Body = b.Stmts
		}
		m.Cases = append(m.Cases, c)
	}
	return m
}

// buildPattern resolves a MatchCase pattern, which the dump writes either
// directly under the case or inside a "patterns" child.
func buildPattern(mc *Node) Pattern {
	var candidates []*Node
	for _, ch := range mc.Children {
		if ch.Kind == "patterns" {
			if w, ok := ch.Prop("WildcardPattern"); ok {
				return Pattern{Kind: PatternWildcard, Name: valueOr(w, "_")}
			}
			candidates = ch.Children
			break
		}
		if ch.Is("WildcardPattern", "TypePattern") {
			candidates = []*Node{ch}
			break
		}
	}
	for _, p := range candidates {
		switch p.Kind {
		case "WildcardPattern":
			return Pattern{Kind: PatternWildcard, Name: labelOr(p, "_")}
		case "TypePattern":
			ty, _ := p.Prop("ty")
			return Pattern{
				Kind: PatternTyped,
				Name: labelOr(p.FirstChild("VarPattern"), "_"),
				Type: typeNameFromTy(valueOr(ty, "Unknown")),
			}
		}
	}
	return Pattern{Kind: PatternUnknown, Name: "?"}
}

func buildLambdaExpr(n *Node) Syntax {
	l := &LambdaExpr{base: base{node: n}}
	body := n.FirstChild("FuncBody")
	if body == nil {
		return l
	}
	for _, p := range paramNodes(body) {
		l.Params = append(l.Params, labelOr(p, "_"))
	}
	l.Body = buildBraceBody(body.FirstChild("Block"))
	return l
}

func buildTryExpr(n *Node) Syntax {
	t := &TryExpr{base: base{node: n}}
	for _, ch := range n.Children {
		switch ch.Kind {
		case "TryBlock":
			if b := ch.FirstChild("Block"); b != nil {
				t.Body = buildBlock(b)
			}
		case "Catch":
			t.Catches = append(t.Catches, buildCatch(ch))
		case "FinallyBlock":
			if b := ch.FirstChild("Block"); b != nil {
				t.Finally = buildBlock(b)
			} else {
				t.Finally = buildBlock(ch)
			}
		}
	}
	return t
}

func buildCatch(n *Node) CatchClause {
	c := CatchClause{Node: n}
	if b := n.FirstChild("CatchBlock").FirstChild("Block"); b != nil {
		c.Body = buildBlock(b)
	}
	ep := n.FirstChild("CatchPattern").FirstChild("ExceptTypePattern")
	if ep == nil {
		return c
	}
	c.Bound = true
	c.Var = labelOr(ep.FirstChild("VarPattern"), "_")
	c.Type = "Unknown"
	if rt := ep.FirstChild("RefType"); rt != nil {
		if name := strings.TrimSpace(rt.Label); name != "" {
			c.Type = name
		} else if ty, ok := rt.Prop("ty"); ok && ty != "" {
			c.Type = typeNameFromTy(ty)
		}
	}
	return c
}

// buildType converts a RefType or PrimitiveType node.
func buildType(n *Node) TypeRef {
	switch n.Kind {
	case "PrimitiveType":
		ty, _ := n.Prop("ty")
		return TypeRef{Name: valueOr(strings.TrimSpace(n.Label), valueOr(ty, "Unknown"))}
	case "RefType":
		name := strings.TrimSpace(n.Label)
		if name == "" {
			if ty, ok := n.Prop("ty"); ok {
				name = typeNameFromTy(ty)
			}
		}
		t := TypeRef{Name: valueOr(name, "Unit")}
		for _, arg := range n.List("typeArguments") {
			t.Args = append(t.Args, buildType(arg))
		}
		return t
	}
	return TypeRef{Name: "Unknown"}
}

// typeNameFromTy turns a semantic type tag such as "Class-Exception<T>"
// into the bare name "Exception".
func typeNameFromTy(ty string) string {
	ty = strings.TrimSpace(ty)
	if i := strings.LastIndex(ty, "-"); i >= 0 {
		ty = ty[i+1:]
	}
	if i := strings.Index(ty, "<"); i >= 0 {
		ty = ty[:i]
	}
	return ty
}

func labelOr(n *Node, def string) string {
	if n == nil {
		return def
	}
	return valueOr(strings.TrimSpace(n.Label), def)
}

func valueOr(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
