package record

import (
	"errors"
	"fmt"
)

// Sentinel errors for malformed lines. Both are recoverable: the next call to
// Decoder.Next resumes at the following line.
var (
	ErrTooShort    = errors.New("invalid record (too short)")
	ErrBadChecksum = errors.New("bad record checksum")
)

// FrameError describes a line that could not be framed into a record.
type FrameError struct {
	Line    int    // 1-based line number within the source
	Text    string // the line as read
	Partial string // hex tokens consumed before the failure
	Err     error  // ErrTooShort or ErrBadChecksum
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Partial)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err is a recoverable framing error.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrTooShort) || errors.Is(err, ErrBadChecksum)
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrTooShort):
		return "too_short"
	case errors.Is(err, ErrBadChecksum):
		return "bad_checksum"
	}
	return "other"
}
