// Package calc is a small expression lexer built on ringlex. It exists as a
// worked example of a grammar and as the lexer behind scantok.
package calc

import (
	"log/slog"
	"unicode"

	"github.com/ctSkennerton/ringlex"
)

// DefaultBufferExp gives an 8 codepoint lookahead, plenty for this grammar.
const DefaultBufferExp = 3

type Options struct {
	BufferExp int // 0 means DefaultBufferExp
	Logger    *slog.Logger
}

// Lexer scans calc tokens. The embedded Scanner provides positions and
// error details for the last token returned by Scan.
type Lexer struct {
	*ringlex.Scanner[Token, Fault]
	text ringlex.RuneBuffer
}

func New(src ringlex.UnitSource, opts Options) (*Lexer, error) {
	if opts.BufferExp == 0 {
		opts.BufferExp = DefaultBufferExp
	}
	l := &Lexer{}
	sc, err := ringlex.New(src, &l.text, ringlex.Config[Token, Fault]{
		Start:     stateTop,
		BufferExp: opts.BufferExp,
		EOF:       EOF,
		Error:     Error,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	l.Scanner = sc
	return l, nil
}

// Text is the lexeme of the last token: the contents of a string without
// quotes or escapes, the digits of a number, and so on.
func (l *Lexer) Text() string {
	return l.text.String()
}

// Column is the 0-based column at which the last token began.
func (l *Lexer) Column() int {
	return l.TokenPos() - l.LinePos()
}

type scanner = ringlex.Scanner[Token, Fault]

// A state is the lexer's position in the grammar. Dispatch is a switch
// rather than a chain of closures so a state never allocates.
type state uint8

const (
	stateTop state = iota
	stateSpace
	stateNumber
	stateString
	stateIdent
)

func (st state) Advance(s *scanner) ringlex.State[Token, Fault] {
	switch st {
	case stateTop:
		return lexTopLevel(s)
	case stateSpace:
		return lexSpace(s)
	case stateNumber:
		return lexNumber(s)
	case stateString:
		return lexString(s)
	case stateIdent:
		return lexIdent(s)
	}
	panic("calc: unknown lexer state")
}

func lexTopLevel(s *scanner) ringlex.State[Token, Fault] {
	c := s.Peek()
	if isSpace(c) {
		return stateSpace
	}

	switch c {
	case '\n':
		s.Next()
		s.EmitNewLine()
		return stateTop
	case ringlex.EOF:
		return s.EmitEOF()
	case '\'':
		return stateString
	case '<', '>', '=':
		s.NextAppend()
		if s.Peek() == '=' {
			s.NextAppend()
		}
		s.Emit(Delim)
		return stateTop
	case '+', '-', '*', '/', ',', ';':
		s.NextAppend()
		s.Emit(Delim)
		return stateTop
	case '(':
		s.NextAppend()
		s.Emit(OpenParen)
		return stateTop
	case ')':
		s.NextAppend()
		s.Emit(CloseParen)
		return stateTop
	}

	if isDigit(c) {
		return stateNumber
	}
	return stateIdent
}

func lexSpace(s *scanner) ringlex.State[Token, Fault] {
	s.AcceptRunFunc(isSpace)
	s.EmitIgnore()
	return stateTop
}

// Integers only. A number running straight into an identifier is an error;
// the identifier is left for the next token.
func lexNumber(s *scanner) ringlex.State[Token, Fault] {
	s.AppendRunFunc(isDigit)
	if isIdentPart(s.Peek()) {
		s.EmitErrorNoExpect(FaultAfterNumber)
	} else {
		s.Emit(Number)
	}
	return stateTop
}

// Single quoted. \' \\ and \<newline> are escapes; a backslash before
// anything else is dropped.
func lexString(s *scanner) ringlex.State[Token, Fault] {
	s.Next() // '\''
	c := s.Peek()
	for c != '\'' && c != ringlex.EOF {
		if c != '\\' {
			s.NextAppend()
		} else {
			s.Next()
			switch s.Peek() {
			case '\'', '\n', '\\':
				s.NextAppend()
			}
		}
		c = s.Peek()
	}

	if c == ringlex.EOF {
		s.EmitError(String, FaultUnterminated)
	} else {
		s.Next() // '\''
		s.Emit(String)
	}
	return stateTop
}

func lexIdent(s *scanner) ringlex.State[Token, Fault] {
	if !isIdentStart(s.Peek()) {
		s.NextAppend()
		s.EmitError(Ident, FaultBadIdent)
		return stateTop
	}
	s.AppendRunFunc(isIdentPart)
	s.Emit(Ident)
	return stateTop
}

func isSpace(r rune) bool {
	return r != '\n' && r >= 0 && unicode.IsSpace(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isIdentStart(r rune) bool {
	return r >= 0 && (unicode.IsLetter(r) || unicode.In(r, unicode.Nl, unicode.Sc, unicode.Pc))
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || r >= 0 && unicode.In(r, unicode.Nd, unicode.Mn, unicode.Mc)
}
