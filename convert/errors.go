// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package convert

import (
	"errors"
	"fmt"

	"github.com/mdhender/astrepr"
)

// ErrReadFile is returned when the input cannot be read.
type ErrReadFile struct {
	Op   string // stat, read
	Path string
	Err  error
}

func (e *ErrReadFile) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ErrReadFile) Unwrap() error {
	return e.Err
}

// ErrWriteFile is returned when the output cannot be written.
type ErrWriteFile struct {
	Op   string // mkdir, write
	Path string
	Err  error
}

func (e *ErrWriteFile) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ErrWriteFile) Unwrap() error {
	return e.Err
}

// Error code constants for reporting.
const (
	ErrCodeReadFile  = "READ_FILE"
	ErrCodeWriteFile = "WRITE_FILE"
	ErrCodeFormat    = "FORMAT"
	ErrCodeUnknown   = "UNKNOWN"
)

// ErrorCode returns the error code string for a given error.
func ErrorCode(err error) string {
	var readErr *ErrReadFile
	var writeErr *ErrWriteFile
	var formatErr *astrepr.FormatError
	switch {
	case errors.As(err, &readErr):
		return ErrCodeReadFile
	case errors.As(err, &writeErr):
		return ErrCodeWriteFile
	case errors.As(err, &formatErr):
		return ErrCodeFormat
	default:
		return ErrCodeUnknown
	}
}
