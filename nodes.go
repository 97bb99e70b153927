// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package astrepr

import (
	"sort"
	"strings"
	"unicode"
)

// Node is the generic tree element produced by the parser.
//
// Kind is the syntactic category from the node's opening line, such as
// "ClassDecl" or "CallExpr". It is never empty.
//
// Label is the free-form text after the kind on the opening line. For
// literal constants ("LitConstExpr") it holds the literal's subkind,
// such as "String" or "Integer", and Value holds the literal itself
// with surrounding quotes removed.
//
// Props holds the bare "key: value" lines from the body. Lists holds the
// named "[ ... ]" collections. Children holds the nested nodes in the
// order they appear.
//
// The parser fully populates a node before returning it; nothing in this
// module modifies a node after that.
type Node struct {
	Kind     string
	Label    string
	Value    string
	Props    map[string]string
	Lists    map[string][]*Node
	Children []*Node

	// Line is the 1-based line of the node's opening line, or 0 for
	// nodes that were not parsed from text.
	Line int

	keys []string // Props keys in the order first seen
}

// NewNode returns an empty node. Literal constants have their label
// split into subkind and value.
func NewNode(kind, label string) *Node {
	n := &Node{
		Kind:  kind,
		Label: label,
		Props: make(map[string]string),
		Lists: make(map[string][]*Node),
	}
	if kind == "LitConstExpr" {
		n.Label, n.Value = splitLiteral(label)
	}
	return n
}

// splitLiteral splits `String "hello"` into ("String", "hello").
func splitLiteral(label string) (subkind, value string) {
	label = strings.TrimSpace(label)
	i := strings.IndexFunc(label, unicode.IsSpace)
	if i < 0 {
		return label, ""
	}
	subkind = label[:i]
	value = strings.TrimSpace(label[i:])
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return subkind, value
}

// Prop returns the scalar property for key.
func (n *Node) Prop(key string) (string, bool) {
	if n == nil || n.Props == nil {
		return "", false
	}
	value, ok := n.Props[key]
	return value, ok
}

// SetProp stores a scalar property, replacing any earlier value.
// The key keeps the position where it was first seen.
func (n *Node) SetProp(key, value string) {
	if n.Props == nil {
		n.Props = make(map[string]string)
	}
	if _, ok := n.Props[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.Props[key] = value
}

// PropKeys returns the scalar property keys in the order they were first
// set. Keys added directly to Props (not through SetProp) follow in
// sorted order.
func (n *Node) PropKeys() []string {
	if n == nil || len(n.Props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(n.Props))
	seen := make(map[string]bool, len(n.Props))
	for _, key := range n.keys {
		if _, ok := n.Props[key]; ok && !seen[key] {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	var rest []string
	for key := range n.Props {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// List returns the named list, or nil.
func (n *Node) List(key string) []*Node {
	if n == nil || n.Lists == nil {
		return nil
	}
	return n.Lists[key]
}

// Position returns the raw "position" property, or an empty string.
func (n *Node) Position() string {
	pos, _ := n.Prop("position")
	return strings.TrimSpace(pos)
}

// Is reports whether the node's kind is one of kinds.
//
// It returns false if n is nil.
func (n *Node) Is(kinds ...string) bool {
	if n == nil {
		return false
	}
	for _, kind := range kinds {
		if n.Kind == kind {
			return true
		}
	}
	return false
}

// FirstChild returns the first child whose kind is one of kinds, or nil.
func (n *Node) FirstChild(kinds ...string) *Node {
	if n == nil {
		return nil
	}
	for _, ch := range n.Children {
		if ch.Is(kinds...) {
			return ch
		}
	}
	return nil
}

// ChildrenOf returns the children whose kind is one of kinds.
func (n *Node) ChildrenOf(kinds ...string) []*Node {
	if n == nil {
		return nil
	}
	var list []*Node
	for _, ch := range n.Children {
		if ch.Is(kinds...) {
			list = append(list, ch)
		}
	}
	return list
}

// Inspect walks the tree in pre-order, calling fn for each node.
// Named lists are visited after the children, in key order.
// If fn returns false, the node's descendants are skipped.
func Inspect(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, ch := range n.Children {
		Inspect(ch, fn)
	}
	keys := make([]string, 0, len(n.Lists))
	for key := range n.Lists {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, el := range n.Lists[key] {
			Inspect(el, fn)
		}
	}
}

// CountKinds returns the number of nodes of each kind in the tree.
func CountKinds(n *Node) map[string]int {
	counts := make(map[string]int)
	Inspect(n, func(n *Node) bool {
		counts[n.Kind]++
		return true
	})
	return counts
}
