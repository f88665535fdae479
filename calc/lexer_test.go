package calc

import (
	"testing"
	"unicode/utf16"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctSkennerton/ringlex"
)

type lexed struct {
	Tok      Token
	Text     string
	Pos      int
	Line     int
	Col      int
	Expected Token
	Fault    Fault
}

func lexInput(t *testing.T, input string) []lexed {
	t.Helper()
	l, err := New(ringlex.NewStringSource(input), Options{})
	require.NoError(t, err)
	return lexAll(t, l)
}

func lexAll(t *testing.T, l *Lexer) []lexed {
	t.Helper()
	var out []lexed
	for {
		tok, err := l.Scan()
		require.NoError(t, err)
		item := lexed{Tok: tok, Text: l.Text(), Pos: l.TokenPos(), Line: l.Line(), Col: l.Column()}
		if tok == Error {
			item.Expected, _ = l.ExpectedToken()
			item.Fault = l.ErrorInfo()
		}
		out = append(out, item)
		if tok == EOF {
			return out
		}
	}
}

func TestLexer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []lexed
	}{
		{
			name:  "arithmetic",
			input: "12+3",
			want: []lexed{
				{Tok: Number, Text: "12", Pos: 0, Line: 1},
				{Tok: Delim, Text: "+", Pos: 2, Line: 1, Col: 2},
				{Tok: Number, Text: "3", Pos: 3, Line: 1, Col: 3},
				{Tok: EOF, Pos: 4, Line: 1, Col: 4},
			},
		},
		{
			name:  "unterminated string",
			input: "'ab",
			want: []lexed{
				{Tok: Error, Text: "ab", Pos: 0, Line: 1, Expected: String, Fault: FaultUnterminated},
				{Tok: EOF, Pos: 3, Line: 1, Col: 3},
			},
		},
		{
			name:  "numbers on two lines",
			input: "1\n2",
			want: []lexed{
				{Tok: Number, Text: "1", Pos: 0, Line: 1},
				{Tok: Number, Text: "2", Pos: 2, Line: 2},
				{Tok: EOF, Pos: 3, Line: 2, Col: 1},
			},
		},
		{
			name:  "crlf counts as one newline",
			input: "1\r\n2\r",
			want: []lexed{
				{Tok: Number, Text: "1", Pos: 0, Line: 1},
				{Tok: Number, Text: "2", Pos: 2, Line: 2},
				{Tok: EOF, Pos: 4, Line: 3},
			},
		},
		{
			name:  "comparison delimiters",
			input: "a<=b>c==d=e",
			want: []lexed{
				{Tok: Ident, Text: "a", Line: 1},
				{Tok: Delim, Text: "<=", Pos: 1, Line: 1, Col: 1},
				{Tok: Ident, Text: "b", Pos: 3, Line: 1, Col: 3},
				{Tok: Delim, Text: ">", Pos: 4, Line: 1, Col: 4},
				{Tok: Ident, Text: "c", Pos: 5, Line: 1, Col: 5},
				{Tok: Delim, Text: "==", Pos: 6, Line: 1, Col: 6},
				{Tok: Ident, Text: "d", Pos: 8, Line: 1, Col: 8},
				{Tok: Delim, Text: "=", Pos: 9, Line: 1, Col: 9},
				{Tok: Ident, Text: "e", Pos: 10, Line: 1, Col: 10},
				{Tok: EOF, Pos: 11, Line: 1, Col: 11},
			},
		},
		{
			name:  "parens and separators",
			input: "f(x, y);",
			want: []lexed{
				{Tok: Ident, Text: "f", Line: 1},
				{Tok: OpenParen, Text: "(", Pos: 1, Line: 1, Col: 1},
				{Tok: Ident, Text: "x", Pos: 2, Line: 1, Col: 2},
				{Tok: Delim, Text: ",", Pos: 3, Line: 1, Col: 3},
				{Tok: Ident, Text: "y", Pos: 5, Line: 1, Col: 5},
				{Tok: CloseParen, Text: ")", Pos: 6, Line: 1, Col: 6},
				{Tok: Delim, Text: ";", Pos: 7, Line: 1, Col: 7},
				{Tok: EOF, Pos: 8, Line: 1, Col: 8},
			},
		},
		{
			name:  "whitespace is ignored",
			input: " \t x  ",
			want: []lexed{
				{Tok: Ident, Text: "x", Pos: 3, Line: 1, Col: 3},
				{Tok: EOF, Pos: 6, Line: 1, Col: 6},
			},
		},
		{
			name:  "bad identifier char is consumed",
			input: "a # b",
			want: []lexed{
				{Tok: Ident, Text: "a", Line: 1},
				{Tok: Error, Text: "#", Pos: 2, Line: 1, Col: 2, Expected: Ident, Fault: FaultBadIdent},
				{Tok: Ident, Text: "b", Pos: 4, Line: 1, Col: 4},
				{Tok: EOF, Pos: 5, Line: 1, Col: 5},
			},
		},
		{
			name:  "positions count codepoints",
			input: "'😀'+π",
			want: []lexed{
				{Tok: String, Text: "😀", Line: 1},
				{Tok: Delim, Text: "+", Pos: 3, Line: 1, Col: 3},
				{Tok: Ident, Text: "π", Pos: 4, Line: 1, Col: 4},
				{Tok: EOF, Pos: 5, Line: 1, Col: 5},
			},
		},
		{
			name:  "string escapes",
			input: `'a\'b\\c\d'`,
			want: []lexed{
				{Tok: String, Text: `a'b\cd`, Line: 1},
				{Tok: EOF, Pos: 11, Line: 1, Col: 11},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  []lexed{{Tok: EOF, Line: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexInput(t, tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("lex %q mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

// Every token kind, a lexical error and a multi-line string in one input.
func TestLexerSample(t *testing.T) {
	const input = "12c('©'+b)*c+1234 c \n ==== 'He©llo \\' \\\n world'"

	want := []lexed{
		{Tok: Error, Text: "12", Pos: 0, Line: 1, Fault: FaultAfterNumber},
		{Tok: Ident, Text: "c", Pos: 2, Line: 1, Col: 2},
		{Tok: OpenParen, Text: "(", Pos: 3, Line: 1, Col: 3},
		{Tok: String, Text: "©", Pos: 4, Line: 1, Col: 4},
		{Tok: Delim, Text: "+", Pos: 7, Line: 1, Col: 7},
		{Tok: Ident, Text: "b", Pos: 8, Line: 1, Col: 8},
		{Tok: CloseParen, Text: ")", Pos: 9, Line: 1, Col: 9},
		{Tok: Delim, Text: "*", Pos: 10, Line: 1, Col: 10},
		{Tok: Ident, Text: "c", Pos: 11, Line: 1, Col: 11},
		{Tok: Delim, Text: "+", Pos: 12, Line: 1, Col: 12},
		{Tok: Number, Text: "1234", Pos: 13, Line: 1, Col: 13},
		{Tok: Ident, Text: "c", Pos: 18, Line: 1, Col: 18},
		{Tok: Delim, Text: "==", Pos: 22, Line: 2, Col: 1},
		{Tok: Delim, Text: "==", Pos: 24, Line: 2, Col: 3},
		{Tok: String, Text: "He©llo ' \n world", Pos: 27, Line: 2, Col: 6},
		{Tok: EOF, Pos: 47, Line: 2, Col: 26},
	}

	got := lexInput(t, input)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sample mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerErrorDetails(t *testing.T) {
	l, err := New(ringlex.NewStringSource("x 'ab"), Options{})
	require.NoError(t, err)

	tok, err := l.Scan()
	require.NoError(t, err)
	require.Equal(t, Ident, tok)

	tok, err = l.Scan()
	require.NoError(t, err)
	require.Equal(t, Error, tok)
	expected, ok := l.ExpectedToken()
	assert.True(t, ok)
	assert.Equal(t, String, expected)
	assert.Equal(t, "Eof found", l.ErrorInfo().String())
	assert.Equal(t, 5, l.ErrorPos())
	assert.Equal(t, 2, l.TokenPos())

	tok, err = l.Scan()
	require.NoError(t, err)
	assert.Equal(t, EOF, tok)
}

func TestLexerStreamError(t *testing.T) {
	l, err := New(ringlex.NewStringSource("1\r2"), Options{})
	require.NoError(t, err)

	_, err = l.Scan()
	assert.ErrorIs(t, err, ringlex.ErrBadNewline)

	l.Reset(ringlex.NewStringSource("ok"))
	got := lexAll(t, l)
	assert.Equal(t, []lexed{
		{Tok: Ident, Text: "ok", Line: 1},
		{Tok: EOF, Pos: 2, Line: 1, Col: 2},
	}, got)
}

func TestLexerReset(t *testing.T) {
	l, err := New(ringlex.NewStringSource("a\nb\nc"), Options{BufferExp: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, l.Capacity())

	for range 2 {
		_, err := l.Scan()
		require.NoError(t, err)
	}
	require.Equal(t, 2, l.Line())

	l.Reset(ringlex.NewStringSource("9"))
	got := lexAll(t, l)
	assert.Equal(t, []lexed{
		{Tok: Number, Text: "9", Line: 1},
		{Tok: EOF, Pos: 1, Line: 1, Col: 1},
	}, got)
}

func TestNewRejectsBadBufferExp(t *testing.T) {
	_, err := New(ringlex.NewStringSource(""), Options{BufferExp: 99})
	assert.Error(t, err)
}

type loopSource struct {
	units []uint16
	i     int
}

func (src *loopSource) ReadUnit() (uint16, error) {
	u := src.units[src.i%len(src.units)]
	src.i++
	return u, nil
}

func TestScanDoesNotAllocate(t *testing.T) {
	src := &loopSource{units: utf16.Encode([]rune("foo + 'bar baz' * (12 - x)\n"))}
	l, err := New(src, Options{})
	require.NoError(t, err)

	// Grow the lexeme buffer first.
	for range 50 {
		_, err := l.Scan()
		require.NoError(t, err)
	}

	allocs := testing.AllocsPerRun(200, func() {
		if _, err := l.Scan(); err != nil {
			panic(err)
		}
	})
	assert.Zero(t, allocs)
}

func TestTokenStrings(t *testing.T) {
	assert.Equal(t, "NUMBER", Number.String())
	assert.Equal(t, "CLOSE_PAREN", CloseParen.String())
	assert.Equal(t, "UNKNOWN", Token(99).String())
	assert.Equal(t, "Unexpected symbol after number", FaultAfterNumber.String())
	assert.Equal(t, "Bad identifier char", FaultBadIdent.String())
	assert.Equal(t, "", NoFault.String())
}
