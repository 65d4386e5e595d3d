// Package acctdberrors contains the errors returned while ingesting accounting logs.
//
// Usage, IO and schema errors are fatal and abort an ingestion run. Parse errors are
// recoverable: the offending line is skipped and counted. Callers should classify errors
// with errors.As, since every error in this package is usually wrapped with context.
package acctdberrors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrUsage is returned when required configuration, e.g. the accounting files or the
// destination database, was not provided.
type ErrUsage struct {
	// Names of the missing settings, e.g. "accounting"
	Missing []string
	// Optional message included with the error message
	Message string
}

func (err *ErrUsage) Error() (s string) {
	if len(err.Missing) > 0 {
		s = fmt.Sprintf("missing required argument(s): %s", strings.Join(err.Missing, ", "))
	} else {
		s = "invalid usage"
	}
	if err.Message != "" {
		s = s + fmt.Sprintf("; %s", err.Message)
	}
	return
}

// ErrIO indicates that a source file could not be opened, read or decompressed.
type ErrIO struct {
	Path  string // Path of the source file
	Op    string // Operation that failed, e.g. "open" or "decompress"
	Cause error
}

func (err *ErrIO) Error() string {
	return fmt.Sprintf("%s %s: %v", err.Op, err.Path, err.Cause)
}

func (err *ErrIO) Unwrap() error {
	return err.Cause
}

// ErrSchema indicates that the destination store could not be removed or (re)created.
type ErrSchema struct {
	Path  string // Location of the destination store
	Op    string
	Cause error
}

func (err *ErrSchema) Error() string {
	if err.Path == "" {
		return fmt.Sprintf("schema %s: %v", err.Op, err.Cause)
	}
	return fmt.Sprintf("schema %s %s: %v", err.Op, err.Path, err.Cause)
}

func (err *ErrSchema) Unwrap() error {
	return err.Cause
}

// ErrStore indicates that accepted records could not be written to, or committed in, the
// destination store.
type ErrStore struct {
	Op    string // e.g. "insert" or "commit"
	Cause error
}

func (err *ErrStore) Error() string {
	return fmt.Sprintf("store %s: %v", err.Op, err.Cause)
}

func (err *ErrStore) Unwrap() error {
	return err.Cause
}

// ErrParse is returned for a single accounting line that could not be turned into a record.
type ErrParse struct {
	Line   int    // 1-based line number within the source file; 0 if unknown
	Field  string // Name of the offending attribute, if any
	Reason string
}

func (err *ErrParse) Error() (s string) {
	if err.Line > 0 {
		s = fmt.Sprintf("line %d: ", err.Line)
	}
	if err.Field != "" {
		s = s + fmt.Sprintf("field %q: ", err.Field)
	}
	return s + err.Reason
}

// IsFatal returns true if err should abort an ingestion run.
// Uses errors.As to look through the chain of errors.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var e *ErrParse
	return !errors.As(err, &e)
}

// IsUsage returns true if err, or any error it wraps, is an ErrUsage.
func IsUsage(err error) bool {
	var e *ErrUsage
	return errors.As(err, &e)
}
