package ringlex

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure of the input stream itself, as opposed to
// a lexical error reported through EmitError.
type ErrorKind int

const (
	KindIO ErrorKind = iota + 1
	KindUTF
	KindBadNewline
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "IO_ERROR"
	case KindUTF:
		return "UTF_ERROR"
	case KindBadNewline:
		return "BAD_NEWLINE"
	}
	return "UNKNOWN_ERROR"
}

// Sentinels for errors.Is. A *StreamError matches the sentinel of its kind.
var (
	ErrIO         = errors.New("scanner stopped: IO_ERROR")
	ErrUTF        = errors.New("scanner stopped: UTF_ERROR")
	ErrBadNewline = errors.New("scanner stopped: BAD_NEWLINE")
)

// Programming errors. These are panicked, never returned.
var (
	ErrBackupOverflow = errors.New("backup beyond lookahead capacity")
	ErrScanAfterEOF   = errors.New("scan beyond EOF")
)

// ErrInvalidUTF8 is reported by a ReaderSource when its input is not valid
// UTF-8. The decoder wraps it in a KindIO StreamError.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// StreamError is returned by Scan when the input could not be decoded.
// It is fatal for the scanner until Reset is called.
type StreamError struct {
	Kind ErrorKind
	Pos  int   // codepoint offset at which decoding failed
	Err  error // underlying source failure, KindIO only
}

func (e *StreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scanner stopped: %s at %d: %v", e.Kind, e.Pos, e.Err)
	}
	return fmt.Sprintf("scanner stopped: %s at %d", e.Kind, e.Pos)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

func (e *StreamError) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrUTF:
		return e.Kind == KindUTF
	case ErrBadNewline:
		return e.Kind == KindBadNewline
	}
	return false
}
