// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package astrepr

import (
	"fmt"
	"io"
	"log/slog"
)

// Diagnostic represents a non-fatal parser observation
// tied to a line in the original source.
type Diagnostic struct {
	Severity slog.Level // Warn for discarded content, Info for tolerated shapes
	Message  string     // "list arguments: discarded KeyValue"
	Line     int        // 1-based line where it occurred
	Text     string     // the raw line, if any
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d: %s: %s", d.Line, d.Severity.String(), d.Message)
}

// PrintDiagnostic writes the diagnostic as
//
//	file:line: LEVEL: message
//	    offending line
func PrintDiagnostic(w io.Writer, diag Diagnostic, filename string) {
	_, _ = fmt.Fprintf(w, "%s:%d: %s: %s\n", filename, diag.Line, diag.Severity.String(), diag.Message)
	if diag.Text != "" {
		_, _ = fmt.Fprintf(w, "    %s\n", diag.Text)
	}
}

// FormatError is returned when the input does not have a File root
// (or a Package root wrapping exactly one File). It is fatal; no tree
// is returned with it.
type FormatError struct {
	Line int // 0 when the input is empty
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("format error at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("format error: %s", e.Msg)
}
