// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package astrepr

//go:generate stringer --type Kind

// Kind implements enums for line tokens
type Kind int

const (
	UNKNOWN Kind = iota

	Comment   // blank, comment-only, or unrecognized line
	Close     // "}"
	ListEnd   // "]"
	ListStart // "name: [" or "name ["
	NodeOpen  // "Kind: label {"
	KeyValue  // "key: value"

	EndOfInput // end of input
)
