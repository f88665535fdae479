package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sanity-io/litter"
	"gopkg.in/yaml.v3"
)

// One scanned token as shown to the user. Line and Col are 1-based.
type record struct {
	Line     int    `yaml:"line"`
	Col      int    `yaml:"col"`
	Pos      int    `yaml:"pos"`
	Token    string `yaml:"token"`
	Text     string `yaml:"text,omitempty"`
	Error    string `yaml:"error,omitempty"`
	Expected string `yaml:"expected,omitempty"`
}

type printer interface {
	begin(file string)
	token(rec record) error
	end() error
	close() error
}

func newPrinter(format string, w io.Writer, colored bool) printer {
	switch format {
	case "dump":
		return &dumpPrinter{w: w}
	case "yaml":
		return &yamlPrinter{enc: yaml.NewEncoder(w)}
	}
	return newTextPrinter(w, colored)
}

// Decide whether text output gets ANSI colours.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type textPrinter struct {
	w    io.Writer
	file string

	where, name, bad func(a ...interface{}) string
}

func newTextPrinter(w io.Writer, colored bool) *textPrinter {
	paint := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &textPrinter{
		w:     w,
		where: paint(color.Faint),
		name:  paint(color.FgCyan),
		bad:   paint(color.FgRed, color.Bold),
	}
}

func (p *textPrinter) begin(file string) { p.file = file }
func (p *textPrinter) end() error        { return nil }
func (p *textPrinter) close() error      { return nil }

// file:line:col TOKEN text
func (p *textPrinter) token(rec record) error {
	where := fmt.Sprintf("%s:%d:%d", p.file, rec.Line, rec.Col)
	name := fmt.Sprintf("%-11s", rec.Token)
	indent := len(where) + 1 + len(name) + 1

	text := rec.Text
	if rec.Error != "" {
		text = rec.Error
		if rec.Expected != "" {
			text += " (expected " + rec.Expected + ")"
		}
		name = p.bad(name)
	} else {
		name = p.name(name)
	}

	if _, err := fmt.Fprintf(p.w, "%s %s ", p.where(where), name); err != nil {
		return err
	}
	if err := printIndented(p.w, text, indent); err != nil {
		return err
	}
	if !strings.HasSuffix(text, "\n") {
		_, err := io.WriteString(p.w, "\n")
		return err
	}
	return nil
}

// Indent each line of a multi-line lexeme after the first, so it lines up
// under its first line.
func printIndented(out io.Writer, s string, ind int) error {
	indentation := strings.Repeat(" ", ind)
	reader := bufio.NewReader(strings.NewReader(s))
	firstline := true
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if !firstline {
				if _, werr := io.WriteString(out, indentation); werr != nil {
					return werr
				}
			}
			if _, werr := io.WriteString(out, line); werr != nil {
				return werr
			}
		}
		if err != nil {
			return nil
		}
		firstline = false
	}
}

type dumpPrinter struct {
	w    io.Writer
	file string
}

var dumpOptions = litter.Options{
	Compact:           true,
	StripPackageNames: true,
}

func (p *dumpPrinter) begin(file string) { p.file = file }
func (p *dumpPrinter) end() error        { return nil }
func (p *dumpPrinter) close() error      { return nil }

func (p *dumpPrinter) token(rec record) error {
	_, err := fmt.Fprintf(p.w, "%s %s\n", p.file, dumpOptions.Sdump(rec))
	return err
}

type yamlDocument struct {
	File   string   `yaml:"file"`
	Tokens []record `yaml:"tokens"`
}

// Emits one YAML document per input.
type yamlPrinter struct {
	enc *yaml.Encoder
	doc yamlDocument
}

func (p *yamlPrinter) begin(file string) {
	p.doc = yamlDocument{File: file, Tokens: p.doc.Tokens[:0]}
}

func (p *yamlPrinter) token(rec record) error {
	p.doc.Tokens = append(p.doc.Tokens, rec)
	return nil
}

func (p *yamlPrinter) end() error {
	return p.enc.Encode(&p.doc)
}

func (p *yamlPrinter) close() error {
	return p.enc.Close()
}
