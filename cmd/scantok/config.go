package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ctSkennerton/ringlex/calc"
)

const envPrefix = "SCANTOK"

var (
	formats    = []string{"text", "dump", "yaml"}
	colorModes = []string{"auto", "always", "never"}
)

type options struct {
	BufferExp  int    `mapstructure:"buffer-exp"`
	Format     string `mapstructure:"format"`
	Color      string `mapstructure:"color"`
	Watch      bool   `mapstructure:"watch"`
	Verbose    bool   `mapstructure:"verbose"`
	S3Region   string `mapstructure:"s3-region"`
	S3Endpoint string `mapstructure:"s3-endpoint"`
}

func registerFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Read settings from this YAML `file`.")
	fs.Int("buffer-exp", calc.DefaultBufferExp, "Lookahead capacity is 2^`n` codepoints.")
	fs.String("format", "text", "Output format: "+strings.Join(formats, ", ")+".")
	fs.String("color", "auto", "Colour text output: "+strings.Join(colorModes, ", ")+".")
	fs.Bool("watch", false, "Re-tokenize local files whenever they are written.")
	fs.BoolP("verbose", "v", false, "Log debug records to stderr.")
	fs.String("s3-region", "", "AWS region for s3:// inputs.")
	fs.String("s3-endpoint", "", "Endpoint `url` of an S3 compatible store.")
}

// Layer flags over SCANTOK_* environment variables over the config file,
// and decode the result.
func loadOptions(v *viper.Viper, fs *pflag.FlagSet) (options, error) {
	var opts options

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return opts, err
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return opts, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err != nil {
		return opts, err
	}
	if err := dec.Decode(v.AllSettings()); err != nil {
		return opts, fmt.Errorf("decoding settings: %w", err)
	}
	return opts, opts.validate()
}

func (o options) validate() error {
	if !slices.Contains(formats, o.Format) {
		return fmt.Errorf("unknown format %q, want one of %s", o.Format, strings.Join(formats, ", "))
	}
	if !slices.Contains(colorModes, o.Color) {
		return fmt.Errorf("unknown colour mode %q, want one of %s", o.Color, strings.Join(colorModes, ", "))
	}
	return nil
}

func (o options) logLevel() slog.Level {
	if o.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
