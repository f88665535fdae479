package ringlex

import (
	"errors"
	"io"
	"unicode/utf16"
)

const (
	surrHigh = 0xd800
	surrLow  = 0xdc00
	surrEnd  = 0xe000
)

// Decode the next codepoint from the source. CR LF and a CR at end of
// input both come out as a single '\n'. After the source ends or fails
// this keeps returning EOF.
func (s *Scanner[T, E]) decode() rune {
	if s.err != nil || s.srcEOF {
		return EOF
	}
	u, ok := s.unit()
	if !ok {
		return EOF
	}

	switch {
	case u == '\r':
		lf, ok := s.unit()
		if !ok {
			if s.err != nil {
				return EOF
			}
			return '\n'
		}
		if lf != '\n' {
			s.fail(KindBadNewline, nil)
			return EOF
		}
		return '\n'

	case u < surrHigh || u >= surrEnd:
		return rune(u)

	case u < surrLow:
		lo, ok := s.unit()
		if !ok {
			if s.err == nil {
				s.fail(KindUTF, nil)
			}
			return EOF
		}
		if lo < surrLow || lo >= surrEnd {
			s.fail(KindUTF, nil)
			return EOF
		}
		return utf16.DecodeRune(rune(u), rune(lo))
	}

	// Lone low surrogate.
	s.fail(KindUTF, nil)
	return EOF
}

// Read one unit. ok is false at end of input or on failure, which is
// recorded in s.err.
func (s *Scanner[T, E]) unit() (u uint16, ok bool) {
	u, err := s.src.ReadUnit()
	switch {
	case err == nil:
		return u, true
	case errors.Is(err, io.EOF):
		s.srcEOF = true
	default:
		s.fail(KindIO, err)
	}
	return 0, false
}

func (s *Scanner[T, E]) fail(kind ErrorKind, cause error) {
	s.err = &StreamError{Kind: kind, Pos: s.read, Err: cause}
	s.log.Debug("input stream failed", "kind", kind, "pos", s.read, "line", s.line, "err", cause)
}
