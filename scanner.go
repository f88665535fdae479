// Package ringlex is the engine for hand-written lexers.
//
// A lexer is written as a chain of states. Each state consumes input through
// Next, Peek and Backup, reports what it found through one of the Emit
// methods, and returns the state to run next. Scan runs the chain until a
// real token has been emitted and returns it. The text of a token is never
// stored by the scanner; states that want it copy codepoints into the
// Accumulator with NextAppend.
//
// Input is read as UTF-16 code units and decoded into codepoints, which are
// kept in a ring of 1<<BufferExp entries. That ring bounds how far a state
// can Backup.
package ringlex

import (
	"errors"
	"fmt"
	"log/slog"
)

// EOF is the codepoint returned by Next and Peek at end of input.
const EOF rune = -1

const maxBufferExp = 24

// A State is one step of a lexer. Advance consumes input, emits at most one
// decision and returns the next state. Only a state that called EmitEOF may
// return nil.
type State[T comparable, E any] interface {
	Advance(s *Scanner[T, E]) State[T, E]
}

// StateFunc adapts an ordinary function to a State.
type StateFunc[T comparable, E any] func(s *Scanner[T, E]) State[T, E]

func (f StateFunc[T, E]) Advance(s *Scanner[T, E]) State[T, E] {
	return f(s)
}

// Config holds the construction parameters of a Scanner.
type Config[T comparable, E any] struct {
	// Start is the first state, and the state restored by Reset.
	Start State[T, E]
	// BufferExp sets the lookahead capacity to 1<<BufferExp codepoints.
	BufferExp int
	// EOF and Error are the sentinel tokens emitted by EmitEOF and
	// EmitError. They must differ.
	EOF, Error T
	// Logger receives debug records on reset and stream failures.
	Logger *slog.Logger
	// Cleanup, if set, runs at the start of every Scan after the scanner
	// cleared its own per-token state.
	Cleanup func()
}

type outcomeKind uint8

const (
	outNone outcomeKind = iota
	outContinue
	outToken
)

// outcome is the decision of the last emitting state: either a token or
// "continue" for ignored input.
type outcome[T comparable] struct {
	kind outcomeKind
	tok  T
}

// Scanner drives a lexer's states over a UnitSource. A Scanner is not safe
// for concurrent use; reuse it for another input with Reset.
type Scanner[T comparable, E any] struct {
	src    UnitSource
	srcEOF bool
	acc    Accumulator

	buf  []rune // ring of the last len(buf) decoded codepoints
	mask int
	read int // next position to decode
	pos  int // next position to consume

	tokPos     int
	nextTokPos int
	line       int
	linePos    int

	start State[T, E]
	state State[T, E]
	out   outcome[T]

	expected    T
	hasExpected bool
	errInfo     E
	errPos      int
	err         error

	eofTok, errTok T
	log            *slog.Logger
	cleanup        func()
}

// New returns a Scanner reading from src and appending lexeme text to acc.
// A nil acc discards lexeme text.
func New[T comparable, E any](src UnitSource, acc Accumulator, cfg Config[T, E]) (*Scanner[T, E], error) {
	if cfg.Start == nil {
		return nil, errors.New("ringlex: no start state")
	}
	if cfg.BufferExp < 1 || cfg.BufferExp > maxBufferExp {
		return nil, fmt.Errorf("ringlex: buffer exponent %d out of range [1, %d]", cfg.BufferExp, maxBufferExp)
	}
	if cfg.EOF == cfg.Error {
		return nil, fmt.Errorf("ringlex: EOF and error tokens are both %v", cfg.EOF)
	}
	if acc == nil {
		acc = Discard
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	s := &Scanner[T, E]{
		acc:     acc,
		buf:     make([]rune, 1<<cfg.BufferExp),
		mask:    1<<cfg.BufferExp - 1,
		start:   cfg.Start,
		eofTok:  cfg.EOF,
		errTok:  cfg.Error,
		log:     log,
		cleanup: cfg.Cleanup,
	}
	s.rewind(src)
	return s, nil
}

// Reset rebinds the scanner to src and returns every cursor, counter and
// the state chain to their initial values. The ring is reused.
func (s *Scanner[T, E]) Reset(src UnitSource) {
	s.log.Debug("scanner reset", "pos", s.pos, "line", s.line)
	s.rewind(src)
}

func (s *Scanner[T, E]) rewind(src UnitSource) {
	var (
		noTok  T
		noInfo E
	)
	s.src, s.srcEOF = src, false
	s.read, s.pos = 0, 0
	s.tokPos, s.nextTokPos = -1, 0
	s.line, s.linePos = 1, 0
	s.state = s.start
	s.out = outcome[T]{}
	s.expected, s.hasExpected, s.errInfo = noTok, false, noInfo
	s.errPos = -1
	s.err = nil
	s.acc.Clear()
}

// Scan runs states until one emits a token other than an ignore, and
// returns it. Lexical errors come back as the Error sentinel with a nil
// error. A non-nil error is a *StreamError and is returned again by every
// later Scan until Reset.
//
// Scan panics with ErrScanAfterEOF once the state chain has ended.
func (s *Scanner[T, E]) Scan() (T, error) {
	var (
		noTok  T
		noInfo E
	)
	if s.err != nil {
		return noTok, s.err
	}

	s.out = outcome[T]{}
	s.tokPos = -1
	s.acc.Clear()
	s.expected, s.hasExpected, s.errInfo = noTok, false, noInfo
	s.errPos = -1
	if s.cleanup != nil {
		s.cleanup()
	}

	for s.out.kind != outToken {
		if s.state == nil {
			panic(ErrScanAfterEOF)
		}
		s.state = s.state.Advance(s)
		if s.err != nil {
			return noTok, s.err
		}
	}
	return s.out.tok, nil
}

// Line is the 1-based line number. It only changes on EmitNewLine.
func (s *Scanner[T, E]) Line() int {
	return s.line
}

// LinePos is the offset at which the current line began.
// Pos()-LinePos() is the 0-based column.
func (s *Scanner[T, E]) LinePos() int {
	return s.linePos
}

// Pos is the absolute codepoint offset of the consume cursor.
func (s *Scanner[T, E]) Pos() int {
	return s.pos
}

// TokenPos is the offset at which the last emitted token began, or -1 if
// nothing was emitted during this Scan.
func (s *Scanner[T, E]) TokenPos() int {
	return s.tokPos
}

// ErrorPos is the consume offset at the time EmitError was called, or -1.
func (s *Scanner[T, E]) ErrorPos() int {
	return s.errPos
}

// ExpectedToken reports the token the lexer was trying to produce when it
// emitted the error sentinel, if it named one.
func (s *Scanner[T, E]) ExpectedToken() (T, bool) {
	return s.expected, s.hasExpected
}

// ErrorInfo is the payload passed to EmitError.
func (s *Scanner[T, E]) ErrorInfo() E {
	return s.errInfo
}

// Capacity is the number of codepoints the ring holds.
func (s *Scanner[T, E]) Capacity() int {
	return len(s.buf)
}

// Emission.

func (s *Scanner[T, E]) span() {
	s.tokPos = s.nextTokPos
	s.nextTokPos = s.pos
}

// Emit ends the current token. Its span is everything consumed since the
// previous emission.
func (s *Scanner[T, E]) Emit(tok T) {
	s.out = outcome[T]{kind: outToken, tok: tok}
	s.span()
}

// EmitIgnore ends the current span without producing a token.
func (s *Scanner[T, E]) EmitIgnore() {
	s.out = outcome[T]{kind: outContinue}
	s.span()
}

// EmitEOF emits the EOF sentinel and returns the nil state that ends the
// chain. States return its result directly.
func (s *Scanner[T, E]) EmitEOF() State[T, E] {
	s.Emit(s.eofTok)
	return nil
}

// EmitNewLine ignores the current span and starts a new line at Pos.
func (s *Scanner[T, E]) EmitNewLine() {
	s.EmitIgnore()
	s.newLine()
}

// EmitNewLineToken is EmitNewLine for grammars where the newline is a token.
func (s *Scanner[T, E]) EmitNewLineToken(tok T) {
	s.Emit(tok)
	s.newLine()
}

func (s *Scanner[T, E]) newLine() {
	s.line++
	s.linePos = s.pos
}

// EmitError records a lexical error and emits the error sentinel.
func (s *Scanner[T, E]) EmitError(expected T, info E) {
	s.expected, s.hasExpected = expected, true
	s.recordError(info)
}

// EmitErrorNoExpect is EmitError without an expected token.
func (s *Scanner[T, E]) EmitErrorNoExpect(info E) {
	var noTok T
	s.expected, s.hasExpected = noTok, false
	s.recordError(info)
}

func (s *Scanner[T, E]) recordError(info E) {
	s.errInfo = info
	s.errPos = s.pos
	s.Emit(s.errTok)
}
