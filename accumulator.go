package ringlex

import "strings"

// An Accumulator receives the codepoints a state function keeps as token
// text. The scanner clears it at the start of every Scan.
type Accumulator interface {
	Append(r rune)
	Clear()
}

// RuneBuffer is a reusable Accumulator backed by a rune slice.
type RuneBuffer struct {
	runes []rune
}

func (b *RuneBuffer) Append(r rune) {
	b.runes = append(b.runes, r)
}

func (b *RuneBuffer) Clear() {
	b.runes = b.runes[:0]
}

func (b *RuneBuffer) Len() int {
	return len(b.runes)
}

// Runes returns the accumulated text. The slice is only valid until the
// next Append or Clear.
func (b *RuneBuffer) Runes() []rune {
	return b.runes
}

func (b *RuneBuffer) String() string {
	return string(b.runes)
}

// BuilderAccumulator adapts a strings.Builder.
type BuilderAccumulator struct {
	*strings.Builder
}

func (b BuilderAccumulator) Append(r rune) {
	b.WriteRune(r)
}

func (b BuilderAccumulator) Clear() {
	b.Reset()
}

type discard struct{}

func (discard) Append(rune) {}
func (discard) Clear()      {}

// Discard is an Accumulator that drops everything.
var Discard Accumulator = discard{}
