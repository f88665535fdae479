package ringlex

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf16"
	"unicode/utf8"
)

// A UnitSource yields UTF-16 code units one at a time. ReadUnit returns
// io.EOF at end of input; any other error is a source failure and is
// reported by the scanner as KindIO.
type UnitSource interface {
	ReadUnit() (uint16, error)
}

// splitter turns runes into UTF-16 units, holding the low half of a
// surrogate pair until the next read.
type splitter struct {
	low     uint16
	pending bool
}

func (sp *splitter) split(r rune) uint16 {
	if r < 0x10000 {
		return uint16(r)
	}
	hi, lo := utf16.EncodeRune(r)
	sp.low, sp.pending = uint16(lo), true
	return uint16(hi)
}

func (sp *splitter) take() (uint16, bool) {
	if !sp.pending {
		return 0, false
	}
	sp.pending = false
	return sp.low, true
}

type stringSource struct {
	s string
	i int
	splitter
}

// NewStringSource returns a source over the UTF-16 encoding of s.
func NewStringSource(s string) UnitSource {
	return &stringSource{s: s}
}

func (src *stringSource) ReadUnit() (uint16, error) {
	if u, ok := src.take(); ok {
		return u, nil
	}
	if src.i >= len(src.s) {
		return 0, io.EOF
	}
	r, w := utf8.DecodeRuneInString(src.s[src.i:])
	if r == utf8.RuneError && w == 1 {
		return 0, ErrInvalidUTF8
	}
	src.i += w
	return src.split(r), nil
}

type unitSource struct {
	units []uint16
	i     int
}

// NewUnitSource returns a source over raw code units. The units are not
// validated, so unpaired surrogates reach the decoder as is.
func NewUnitSource(units []uint16) UnitSource {
	return &unitSource{units: units}
}

func (src *unitSource) ReadUnit() (uint16, error) {
	if src.i >= len(src.units) {
		return 0, io.EOF
	}
	u := src.units[src.i]
	src.i++
	return u, nil
}

type readerSource struct {
	rd io.RuneReader
	splitter
}

// NewReaderSource returns a source over UTF-8 encoded text read from r.
// Read errors other than io.EOF are passed through unchanged.
func NewReaderSource(r io.Reader) UnitSource {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	return &readerSource{rd: rr}
}

func (src *readerSource) ReadUnit() (uint16, error) {
	if u, ok := src.take(); ok {
		return u, nil
	}
	r, w, err := src.rd.ReadRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, err
	}
	if r == utf8.RuneError && w == 1 {
		return 0, ErrInvalidUTF8
	}
	return src.split(r), nil
}
