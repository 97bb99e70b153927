// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package astrepr reads the textual AST dump ("AST repr") printed by the
// Cangjie compiler. The lexer classifies each line, the parser assembles
// a generic Node tree, and Build assigns the children of recognized nodes
// to named roles in a typed Syntax tree for the renderer.
package astrepr

import (
	"context"
	"fmt"
	"log/slog"
)

/*
Invariants:
 * Initialization
   * NewParser constructs a Lexer and primes `p.currToken` with the first
     token before the top-level parse begins.
   * After initialization, `p.currToken` is never nil (once EOF is reached,
     it will always be EOF).

 * Token cursor semantics
   * `peek()` returns the lookahead token and never changes parser state.
   * `advance()` returns the lookahead token and loads the next one.
     EOF is returned repeatedly but the cursor doesn't move past it.

 * Forward progress
   * Every loop in the tree builder calls advance() exactly once per
     iteration and stops at EOF, so any finite input terminates, no matter
     what the list or node bodies contain.

 * Tree shape
   * A node is appended to its parent only after its body has been read.
   * A list element whose body never closes is dropped, never stored
     half-built. A child node whose body never closes is kept; running out
     of input is tolerated.
*/

type Parser struct {
	ctx       context.Context
	logger    *slog.Logger
	lexer     *Lexer
	currToken *Token // current lookahead

	diagnostics []Diagnostic
	nodeCount   int
}

// Parse parses a fully buffered AST repr dump and returns its File node.
// Diagnostics describe content that was skipped along the way.
// The error, if any, is a *FormatError.
func Parse(ctx context.Context, name string, input []byte, logger *slog.Logger) (*Node, []Diagnostic, error) {
	p := NewParser(ctx, name, input, logger)
	root, err := p.Parse()
	return root, p.Diagnostics(), err
}

// NewParser returns an initialized parser.
func NewParser(ctx context.Context, name string, input []byte, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Parser{
		ctx:    ctx,
		logger: logger,
		lexer:  NewLexer(ctx, name, input, logger),
	}
	// Prime the cursor with the first token.
	p.currToken = p.lexer.Scan()
	return p
}

// Diagnostics returns the observations recorded while parsing.
func (p *Parser) Diagnostics() []Diagnostic {
	return p.diagnostics
}

// Parse reads the root node and returns the effective File node.
//
// The first line must open a node. A "File" root is returned as is.
// A "Package" root must contain exactly one "File" child, which is
// returned. Anything else is a *FormatError.
func (p *Parser) Parse() (*Node, error) {
	first := p.advance()
	if first.Is(EndOfInput) {
		return nil, &FormatError{Msg: "empty input"}
	} else if first.IsNot(NodeOpen) {
		return nil, &FormatError{Line: first.Line, Msg: fmt.Sprintf("expected File or Package root, got %q", p.lexer.Line(first.Line))}
	}

	root, _ := p.parseNode(first)
	p.logger.DebugContext(p.ctx, "parser: parsed root", "source", p.lexer.Name(), "kind", root.Kind, "nodes", p.nodeCount)

	switch root.Kind {
	case "File":
		return root, nil
	case "Package":
		files := root.ChildrenOf("File")
		if len(files) == 0 {
			return nil, &FormatError{Line: root.Line, Msg: "Package root does not contain a File"}
		} else if len(files) > 1 {
			return nil, &FormatError{Line: files[1].Line, Msg: fmt.Sprintf("Package root contains %d File nodes, expected 1", len(files))}
		}
		return files[0], nil
	}
	return nil, &FormatError{Line: root.Line, Msg: fmt.Sprintf("expected File or Package root, got %q", root.Kind)}
}

// parseNode builds the node opened by tok, consuming lines up to and
// including its matching Close. It reports false if input ran out first.
func (p *Parser) parseNode(open *Token) (*Node, bool) {
	n := NewNode(open.Name, open.Value)
	n.Line = open.Line
	p.nodeCount++

	for !p.isAtEnd() {
		tok := p.advance()
		switch tok.Kind {
		case Close:
			return n, true
		case Comment, ListEnd:
			// stray list ends at node level are ignored
		case ListStart:
			n.Lists[tok.Name] = p.parseList(tok)
		case KeyValue:
			n.SetProp(tok.Name, tok.Value)
		case NodeOpen:
			child, _ := p.parseNode(tok)
			n.Children = append(n.Children, child)
		}
	}

	p.warn(open.Line, fmt.Sprintf("%s: missing closing brace before end of input", n.Kind))
	return n, false
}

// parseList collects the nodes of a named list up to its ListEnd.
// Anything that is not a node is consumed and discarded.
func (p *Parser) parseList(open *Token) []*Node {
	list := []*Node{}
	for !p.isAtEnd() {
		tok := p.advance()
		switch tok.Kind {
		case ListEnd:
			return list
		case NodeOpen:
			el, ok := p.parseNode(tok)
			if !ok {
				p.warn(tok.Line, fmt.Sprintf("list %s: dropped unterminated %s", open.Name, el.Kind))
				continue
			}
			list = append(list, el)
		case Comment:
			// blank lines and comments are expected
		default:
			p.warn(tok.Line, fmt.Sprintf("list %s: discarded %s", open.Name, tok.Kind))
		}
	}

	p.warn(open.Line, fmt.Sprintf("list %s: missing closing bracket before end of input", open.Name))
	return list
}

func (p *Parser) warn(line int, msg string) {
	diag := Diagnostic{
		Severity: slog.LevelWarn,
		Message:  msg,
		Line:     line,
		Text:     p.lexer.Line(line),
	}
	p.diagnostics = append(p.diagnostics, diag)
	// callers report diagnostics themselves
	p.logger.DebugContext(p.ctx, "parser: "+msg, "source", p.lexer.Name(), "line", line)
}

// peek returns the current lookahead token without consuming it.
func (p *Parser) peek() *Token {
	return p.currToken
}

// advance consumes and returns the current token, then updates the lookahead.
func (p *Parser) advance() *Token {
	// Safety net: if someone constructed Parser manually and forgot to prime it.
	if p.currToken == nil {
		panic("assert(parser.currToken != nil)")
	}
	tok := p.currToken
	// If we've already reached EOF, stay there forever.
	if tok.Kind == EndOfInput {
		return tok
	}
	p.currToken = p.lexer.Scan()
	return tok
}

// isAtEnd reports whether the parser has reached EOF.
func (p *Parser) isAtEnd() bool {
	return p.peek().Is(EndOfInput)
}
