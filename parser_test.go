// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package astrepr_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/mdhender/astrepr"
)

const snippet = `File: test.cj {
    curFile: test.cj
    position: (1, 1, 1) (1, 10, 2)
    PackageSpec: pkgname {
      pkgname
    }
    ImportSpec: Foo {
      prefixPaths: std.foo
      isDecl: 1
    }
}
`

func parse(t *testing.T, input string) (*astrepr.Node, []astrepr.Diagnostic) {
	t.Helper()
	root, diags, err := astrepr.Parse(context.Background(), "<input>", []byte(input), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return root, diags
}

func TestParseSnippet(t *testing.T) {
	root, diags := parse(t, snippet)
	if len(diags) != 0 {
		t.Errorf("diagnostics: want 0, got %v", diags)
	}
	if root.Kind != "File" {
		t.Fatalf("root: kind: want %q, got %q", "File", root.Kind)
	}
	if root.Label != "test.cj" {
		t.Errorf("root: label: want %q, got %q", "test.cj", root.Label)
	}
	if got := root.Position(); got != "(1, 1, 1) (1, 10, 2)" {
		t.Errorf("root: position: want %q, got %q", "(1, 1, 1) (1, 10, 2)", got)
	}
	if got := root.PropKeys(); strings.Join(got, ",") != "curFile,position" {
		t.Errorf("root: keys: want curFile,position, got %v", got)
	}
	if len(root.Children) != 2 {
		t.Fatalf("root: children: want 2, got %d", len(root.Children))
	}
	pkg := root.FirstChild("PackageSpec")
	if pkg == nil || pkg.Label != "pkgname" {
		t.Fatalf("PackageSpec: want label %q, got %+v", "pkgname", pkg)
	}
	if len(pkg.Props) != 0 {
		t.Errorf("PackageSpec: props: want none, got %v", pkg.Props)
	}
	imp := root.FirstChild("ImportSpec")
	if v, _ := imp.Prop("prefixPaths"); v != "std.foo" {
		t.Errorf("ImportSpec: prefixPaths: want %q, got %q", "std.foo", v)
	}
	if imp.Line != 7 {
		t.Errorf("ImportSpec: line: want 7, got %d", imp.Line)
	}
}

func TestParseRootErrors(t *testing.T) {
	for _, tc := range []struct {
		id    string
		input string
		line  int
	}{
		{id: "empty", input: ""},
		{id: "not a node", input: "curFile: a\nFile: a {\n}\n", line: 1},
		{id: "leading blank", input: "\nFile: a {\n}\n", line: 1},
		{id: "wrong root", input: "ClassDecl: A {\n}\n", line: 1},
		{id: "package without file", input: "Package: p {\n  PackageSpec: p {\n  }\n}\n", line: 1},
		{id: "package with two files", input: "Package: p {\n  File: a {\n  }\n  File: b {\n  }\n}\n", line: 4},
	} {
		root, _, err := astrepr.Parse(context.Background(), tc.id, []byte(tc.input), nil)
		if root != nil {
			t.Errorf("%s: root: want nil, got %s", tc.id, root.Kind)
		}
		var fe *astrepr.FormatError
		if !errors.As(err, &fe) {
			t.Errorf("%s: error: want *FormatError, got %v", tc.id, err)
			continue
		}
		if fe.Line != tc.line {
			t.Errorf("%s: line: want %d, got %d", tc.id, tc.line, fe.Line)
		}
	}
}

func TestParsePackageRoot(t *testing.T) {
	root, _ := parse(t, "Package: p {\n  File: a.cj {\n    PackageSpec: p {\n    }\n  }\n}\n")
	if root.Kind != "File" || root.Label != "a.cj" {
		t.Fatalf("root: want File a.cj, got %s %s", root.Kind, root.Label)
	}
	if len(root.Children) != 1 {
		t.Errorf("root: children: want 1, got %d", len(root.Children))
	}
}

func TestParseUnterminated(t *testing.T) {
	// the body of ClassDecl never closes
	root, diags := parse(t, "File: a {\n  ClassDecl: A {\n    position: x\n")
	if len(root.Children) != 1 || root.Children[0].Kind != "ClassDecl" {
		t.Fatalf("root: want the unterminated ClassDecl kept, got %+v", root.Children)
	}
	if len(diags) != 2 {
		t.Errorf("diagnostics: want 2, got %d: %v", len(diags), diags)
	}
}

func TestParseDiagnosticsAreNotLoggedAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	_, diags, err := astrepr.Parse(context.Background(), "<input>", []byte("File: a {\n  ClassDecl: A {\n    position: x\n"), logger)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(diags) == 0 {
		t.Fatalf("diagnostics: want some, got none")
	}
	if buf.Len() != 0 {
		t.Errorf("log: want nothing at info level, got %q", buf.String())
	}
}

func TestParseLists(t *testing.T) {
	input := `File: a {
  CallExpr: {
    arguments: [
      stray: value
      // comment
      FuncArg: {
        RefExpr: x {
        }
      }
      }
    ]
  }
}
`
	root, diags := parse(t, input)
	call := root.FirstChild("CallExpr")
	if call == nil {
		t.Fatalf("CallExpr: missing")
	}
	args := call.List("arguments")
	if len(args) != 1 || args[0].Kind != "FuncArg" {
		t.Fatalf("arguments: want [FuncArg], got %+v", args)
	}
	if len(diags) != 2 {
		t.Errorf("diagnostics: want 2 (KeyValue, Close), got %d: %v", len(diags), diags)
	}
	// a list does not count as a child
	if len(call.Children) != 0 {
		t.Errorf("CallExpr: children: want 0, got %d", len(call.Children))
	}
}

func TestParseDropsUnterminatedListElement(t *testing.T) {
	root, diags := parse(t, "File: a {\n  CallExpr: {\n    arguments: [\n      FuncArg: {\n")
	call := root.FirstChild("CallExpr")
	if got := call.List("arguments"); len(got) != 0 {
		t.Errorf("arguments: want empty, got %d", len(got))
	}
	if len(diags) == 0 {
		t.Errorf("diagnostics: want warnings, got none")
	}
}

func TestParseLiteral(t *testing.T) {
	root, _ := parse(t, "File: a {\n  LitConstExpr: String \"got here 0\" {\n  }\n  LitConstExpr: Integer 42 {\n  }\n  LitConstExpr: Unit {\n  }\n}\n")
	for i, want := range []struct{ label, value string }{
		{"String", "got here 0"},
		{"Integer", "42"},
		{"Unit", ""},
	} {
		n := root.Children[i]
		if n.Label != want.label || n.Value != want.value {
			t.Errorf("%d: want %q %q, got %q %q", i, want.label, want.value, n.Label, n.Value)
		}
	}
}

func TestCountKinds(t *testing.T) {
	root, _ := parse(t, snippet)
	counts := astrepr.CountKinds(root)
	for kind, want := range map[string]int{"File": 1, "PackageSpec": 1, "ImportSpec": 1} {
		if counts[kind] != want {
			t.Errorf("%s: want %d, got %d", kind, want, counts[kind])
		}
	}
}
