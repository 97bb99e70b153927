// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"errors"
	"fmt"

	"github.com/mdhender/astrepr/convert"
)

// ErrDatabase is returned when database operations fail.
type ErrDatabase struct {
	Op  string
	Err error
}

func (e *ErrDatabase) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *ErrDatabase) Unwrap() error {
	return e.Err
}

// Error code constants for reporting.
const (
	ErrCodeDatabase = "DATABASE"
)

// ErrorCode returns the error code string for a given error. Errors from
// the conversion itself keep their convert codes.
func ErrorCode(err error) string {
	var dbErr *ErrDatabase
	if errors.As(err, &dbErr) {
		return ErrCodeDatabase
	}
	return convert.ErrorCode(err)
}
