package meshconv

import (
	"errors"
	"fmt"
)

var (
	// ErrAccess marks failures to open, create or write a file.
	ErrAccess = errors.New("file access error")

	// ErrParse marks malformed mesh content.
	ErrParse = errors.New("parse error")

	errIsDirectory = errors.New("is a directory")
)

// ParseError identifies the offending source line.
type ParseError struct {
	Line   int    // 1-based
	Text   string // the line as read, trimmed
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

func accessError(op, path string, err error) error {
	return fmt.Errorf("%w: could not %s %s: %w", ErrAccess, op, path, err)
}

// loadError wraps a reader failure for fileName, keeping the message honest
// about whether the content or the file was at fault.
func loadError(kind, fileName string, err error) error {
	if errors.Is(err, ErrParse) {
		return fmt.Errorf("error parsing %s file %s: %w", kind, fileName, err)
	}
	return fmt.Errorf("error reading %s file %s: %w", kind, fileName, err)
}
