// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package astrepr

import (
	"bytes"
	"unicode"
)

const (
	// CR and LF are control characters, respectively coded 0x0D (13 decimal) and 0x0A (10 decimal).
	// Windows uses CR + LF, Unix/Mac uses LF, Classic Mac uses CR.
	// Dumps from any of them are normalized to LF before splitting into lines.

	// CR is 0x0D or '\r'
	CR = '\r'

	// LF is 0x0A or '\n'
	LF = '\n'
)

// normalizeEOL replaces CR+LF and stray CR with LF.
func normalizeEOL(input []byte) []byte {
	if bytes.IndexByte(input, CR) == -1 {
		return input
	}
	input = bytes.ReplaceAll(input, []byte{CR, LF}, []byte{LF})
	return bytes.ReplaceAll(input, []byte{CR}, []byte{LF})
}

func isIdentStart(ch rune) bool {
	return ch < 0x80 && unicode.IsLetter(ch)
}

func isIdentRune(ch rune) bool {
	return ch < 0x80 && (unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_')
}

// isIdentifier reports whether s is an ASCII identifier that starts with a letter.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		if i == 0 && !isIdentStart(ch) {
			return false
		} else if !isIdentRune(ch) {
			return false
		}
	}
	return true
}
