// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package astrepr

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
)

// Lexer invariants
//
// The lexer treats input as an immutable, fully buffered UTF-8 byte slice.
// Line endings are normalized to LF before the input is split, so a dump
// written on Windows classifies exactly like one written on Linux.
//
// Every call to Scan consumes exactly one line and returns exactly one
// token, so callers that advance on every iteration always make progress.
// Once the lines are exhausted, Scan returns the same EndOfInput token
// forever.

type Lexer struct {
	name  string   // name of the input source
	lines []string // input split on LF, without the line endings
	pos   int      // index of the next line to scan

	// returns a canonical end of input token
	endToken *Token

	// logging
	ctx        context.Context
	logger     *slog.Logger
	tokenCount int
}

func NewLexer(ctx context.Context, name string, input []byte, logger *slog.Logger) *Lexer {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Lexer{
		name:   name,
		ctx:    ctx,
		logger: logger,
	}
	if len(input) != 0 {
		l.lines = strings.Split(string(normalizeEOL(input)), "\n")
		// a trailing newline does not start another line
		if n := len(l.lines); n > 0 && l.lines[n-1] == "" {
			l.lines = l.lines[:n-1]
		}
	}
	return l
}

// Name returns the name of the input source.
func (l *Lexer) Name() string {
	return l.name
}

// Line returns the raw text of the 1-based line n, or an empty
// string if n is out of range.
func (l *Lexer) Line(n int) string {
	if n < 1 || n > len(l.lines) {
		return ""
	}
	return l.lines[n-1]
}

// Scan returns the token for the next line of input.
//
// Once we reach end of input, we always return the same EOF token.
func (l *Lexer) Scan() *Token {
	if l.pos >= len(l.lines) {
		if l.endToken == nil {
			l.endToken = &Token{Line: len(l.lines) + 1, Kind: EndOfInput}
			l.logger.DebugContext(l.ctx, "lexer: end of input", "source", l.name, "tokens", l.tokenCount)
		}
		return l.endToken
	}
	tok := Classify(l.lines[l.pos])
	l.pos++
	tok.Line = l.pos
	l.tokenCount++
	return tok
}

// Classify maps one line of AST repr text (without its line ending) to a
// token. Rules are applied in priority order:
//
//  1. blank or comment-only line is a Comment
//  2. "}" is a Close
//  3. "]" is a ListEnd
//  4. "name: [" or "name [" is a ListStart
//  5. a line ending in " {" is a NodeOpen
//  6. a line containing ": " is a KeyValue
//  7. anything else is a Comment
//
// The returned token has no line number.
func Classify(line string) *Token {
	text := strings.TrimSpace(StripComment(line))
	switch text {
	case "":
		return &Token{Kind: Comment}
	case "}":
		return &Token{Kind: Close, Text: text}
	case "]":
		return &Token{Kind: ListEnd, Text: text}
	}
	if name, ok := splitListStart(text); ok {
		return &Token{Kind: ListStart, Name: name, Text: text}
	}
	if strings.HasSuffix(text, " {") {
		kind, label := splitNodeOpen(strings.TrimSpace(text[:len(text)-2]))
		return &Token{Kind: NodeOpen, Name: kind, Value: label, Text: text}
	}
	if key, value, ok := strings.Cut(text, ": "); ok {
		return &Token{Kind: KeyValue, Name: strings.TrimSpace(key), Value: strings.TrimSpace(value), Text: text}
	}
	return &Token{Kind: Comment, Text: text}
}

// StripComment removes a trailing "//" comment from the line.
// A "//" inside a double-quoted string does not start a comment;
// backslash escapes inside the string are honored.
func StripComment(line string) string {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return strings.TrimRightFunc(line[:i], unicode.IsSpace)
			}
		case '"':
			for i++; i < len(line) && line[i] != '"'; i++ {
				if line[i] == '\\' {
					i++
				}
			}
		}
	}
	return line
}

// splitListStart accepts "name: [", "name:[" and "name [".
func splitListStart(text string) (string, bool) {
	if !strings.HasSuffix(text, "[") {
		return "", false
	}
	rest := strings.TrimRightFunc(text[:len(text)-1], unicode.IsSpace)
	spaced := len(rest) < len(text)-1
	colon := strings.HasSuffix(rest, ":")
	if colon {
		rest = strings.TrimRightFunc(rest[:len(rest)-1], unicode.IsSpace)
	}
	if !colon && !spaced {
		return "", false
	} else if !isIdentifier(rest) {
		return "", false
	}
	return rest, true
}

// splitNodeOpen splits the text in front of " {" into a kind and a label.
//
//	"ClassDecl: Foo"    -> ("ClassDecl", "Foo")
//	"RefType:"          -> ("RefType", "")
//	"FuncParam x"       -> ("FuncParam", "x")
//	"Block"             -> ("Block", "")
//
// The kind is never empty; text with nothing in front of the separator
// becomes an "Unknown" node so its body stays balanced.
func splitNodeOpen(text string) (kind, label string) {
	if i := strings.Index(text, ": "); i >= 0 {
		kind = strings.TrimRight(strings.TrimSpace(text[:i]), ":")
		label = strings.TrimSpace(text[i+2:])
	} else if i = strings.LastIndex(text, ":"); i >= 0 {
		kind = strings.TrimSpace(text[:i])
		label = strings.TrimSpace(text[i+1:])
	} else if i = strings.LastIndexFunc(text, unicode.IsSpace); i >= 0 {
		kind = strings.TrimRightFunc(text[:i], unicode.IsSpace)
		label = strings.TrimLeftFunc(text[i:], unicode.IsSpace)
	} else {
		kind = text
	}
	if kind == "" {
		kind = "Unknown"
	}
	return kind, label
}
