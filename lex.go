package ringlex

import "strings"

// Consume the next codepoint if it is in the given string.
func (s *Scanner[T, E]) Accept(valid string) bool {
	return s.AcceptFunc(func(r rune) bool { return strings.ContainsRune(valid, r) })
}

// Consume codepoints from the valid string until the next is not.
func (s *Scanner[T, E]) AcceptRun(valid string) int {
	return s.AcceptRunFunc(func(r rune) bool { return strings.ContainsRune(valid, r) })
}

// Consume the next codepoint if ok reports true for it.
func (s *Scanner[T, E]) AcceptFunc(ok func(rune) bool) bool {
	if r := s.Peek(); r != EOF && ok(r) {
		s.Next()
		return true
	}
	return false
}

// Consume codepoints while ok reports true, returning how many were taken.
func (s *Scanner[T, E]) AcceptRunFunc(ok func(rune) bool) int {
	prevpos := s.pos
	for s.AcceptFunc(ok) {
	}
	return s.pos - prevpos
}

// AppendRunFunc is AcceptRunFunc that also records the codepoints in the
// lexeme.
func (s *Scanner[T, E]) AppendRunFunc(ok func(rune) bool) int {
	prevpos := s.pos
	for {
		r := s.Peek()
		if r == EOF || !ok(r) {
			break
		}
		s.NextAppend()
	}
	return s.pos - prevpos
}

// Consume codepoints until one from the invalid string or EOF is next.
func (s *Scanner[T, E]) AcceptUntil(invalid string) int {
	return s.AcceptRunFunc(func(r rune) bool { return !strings.ContainsRune(invalid, r) })
}
