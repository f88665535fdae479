package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ctSkennerton/ringlex"
	"github.com/ctSkennerton/ringlex/calc"
)

type app struct {
	fs     afero.Fs
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	s3     s3iface.S3API

	opts options
	log  *slog.Logger
}

// errLexical is returned when every input was read but some contained
// lexical errors.
var errLexical = errors.New("input has lexical errors")

func newRootCommand(a *app) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "scantok [flags] [input...]",
		Short: "Print the tokens of calc expressions",
		Long: `scantok runs the calc lexer over each input and prints every token with
its position. An input is a local file, "-" for stdin, or an s3://bucket/key
object. With no inputs stdin is read.

Settings come from flags, then SCANTOK_* environment variables (SCANTOK_FORMAT,
SCANTOK_BUFFER_EXP, ...), then the YAML file named by --config.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			v.SetFs(a.fs)
			opts, err := loadOptions(v, cmd.Flags())
			if err != nil {
				return err
			}
			a.opts = opts
			a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: opts.logLevel()}))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			return a.run(cmd.Context(), args)
		},
	}
	registerFlags(cmd.Flags())
	return cmd
}

func (a *app) run(ctx context.Context, inputs []string) error {
	if err := checkLocal(a.fs, inputs); err != nil {
		return err
	}

	lx, err := calc.New(ringlex.NewStringSource(""), calc.Options{
		BufferExp: a.opts.BufferExp,
		Logger:    a.log,
	})
	if err != nil {
		return err
	}
	p := newPrinter(a.opts.Format, a.stdout, useColor(a.opts.Color, a.stdout))

	if a.opts.Watch {
		for _, name := range inputs {
			if !isLocal(name) {
				return fmt.Errorf("cannot watch %s: only local files can be watched", name)
			}
		}
		err = a.watch(ctx, inputs, func(name string) error {
			if err := a.tokenize(ctx, lx, p, name); err != nil && !errors.Is(err, errLexical) {
				return err
			}
			return nil
		})
		return errors.Join(err, p.close())
	}

	var errs []error
	for _, name := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.tokenize(ctx, lx, p, name); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, p.close())
	return errors.Join(errs...)
}

// Scan one input to the end, reusing lx. Lexical errors are printed and
// scanning goes on; a stream error abandons the input.
func (a *app) tokenize(ctx context.Context, lx *calc.Lexer, p printer, name string) (err error) {
	rc, err := a.open(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	a.log.Debug("tokenizing", "input", name)
	lx.Reset(ringlex.NewReaderSource(rc))
	p.begin(name)

	lexical := 0
	for {
		tok, err := lx.Scan()
		if err != nil {
			a.log.Error("input abandoned", "input", name, "line", lx.Line(), "err", err)
			if perr := p.end(); perr != nil {
				return perr
			}
			return fmt.Errorf("%s: %w", name, err)
		}

		rec := record{
			Line:  lx.Line(),
			Col:   lx.Column() + 1,
			Pos:   lx.TokenPos(),
			Token: tok.String(),
			Text:  lx.Text(),
		}
		if tok == calc.Error {
			lexical++
			rec.Error = lx.ErrorInfo().String()
			if expected, ok := lx.ExpectedToken(); ok {
				rec.Expected = expected.String()
			}
			a.log.Debug("lexical error", "input", name, "pos", lx.ErrorPos(), "fault", rec.Error)
		}
		if err := p.token(rec); err != nil {
			return err
		}
		if tok == calc.EOF {
			break
		}
	}

	if err := p.end(); err != nil {
		return err
	}
	if lexical > 0 {
		return fmt.Errorf("%s: %d errors: %w", name, lexical, errLexical)
	}
	return nil
}
