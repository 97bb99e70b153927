// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package renderer

import (
	"strings"
	"unicode"
)

// reindent strips the common leading whitespace from every line of s and
// prefixes each non-blank line with indent. Single-line text is returned
// unchanged.
func reindent(s, indent string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(s, "\n")
	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
		if common == -1 || n < common {
			common = n
		}
	}
	if common == -1 {
		common = 0
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = indent + line[common:]
	}
	return strings.Join(lines, "\n")
}

// embed prepares multi-line text for insertion after other text on a line
// that starts at indent: the first line stays inline and the rest line up
// with indent.
func embed(s, indent string) string {
	return strings.TrimLeftFunc(reindent(s, indent), unicode.IsSpace)
}
