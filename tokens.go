// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package astrepr

// Token represents a single classified line from the input.
type Token struct {
	Line int // 1-based line number, 0 for synthesized tokens

	Kind Kind // e.g. NodeOpen, KeyValue, ListStart, etc.

	// Name is the node kind for NodeOpen, the key for KeyValue,
	// and the list name for ListStart. Empty for other kinds.
	Name string

	// Value is the label for NodeOpen and the value for KeyValue.
	Value string

	// Text is the trimmed line after comment stripping.
	Text string
}

// Is reports whether tok.Kind matches the provided kind.
//
// It returns false if tok is nil.
func (tok *Token) Is(kind Kind) bool {
	if tok == nil {
		return false
	}
	return tok.Kind == kind
}

// IsOneOf reports whether tok.Kind matches any of the provided kinds.
//
// It returns false if tok is nil.
func (tok *Token) IsOneOf(kinds ...Kind) bool {
	if tok == nil {
		return false
	}
	for _, kind := range kinds {
		if tok.Kind == kind {
			return true
		}
	}
	return false
}

// IsNot reports whether tok.Kind does not match the provided kind.
// It is the opposite of Is(kind)
//
// It returns true if tok is nil.
func (tok *Token) IsNot(kind Kind) bool {
	return !tok.Is(kind)
}
