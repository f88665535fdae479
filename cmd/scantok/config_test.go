package main

import (
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("scantok", pflag.ContinueOnError)
	registerFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func viperOn(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	return v
}

const configFile = "/etc/scantok.yaml"

func writeConfig(t *testing.T, body string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, configFile, []byte(body), 0o644))
	return fs
}

func TestLoadOptionsDefaults(t *testing.T) {
	opts, err := loadOptions(viperOn(afero.NewMemMapFs()), parseFlags(t))
	require.NoError(t, err)
	assert.Equal(t, options{BufferExp: 3, Format: "text", Color: "auto"}, opts)
	assert.Equal(t, slog.LevelWarn, opts.logLevel())
}

func TestLoadOptionsLayers(t *testing.T) {
	fs := writeConfig(t, "format: yaml\nbuffer-exp: 5\ncolor: never\nwatch: true\ns3-region: eu-west-1\n")

	t.Run("config file", func(t *testing.T) {
		opts, err := loadOptions(viperOn(fs), parseFlags(t, "--config", configFile))
		require.NoError(t, err)
		assert.Equal(t, options{
			BufferExp: 5,
			Format:    "yaml",
			Color:     "never",
			Watch:     true,
			S3Region:  "eu-west-1",
		}, opts)
	})

	t.Run("env over config", func(t *testing.T) {
		t.Setenv("SCANTOK_BUFFER_EXP", "6")
		t.Setenv("SCANTOK_S3_ENDPOINT", "http://localhost:9000")
		opts, err := loadOptions(viperOn(fs), parseFlags(t, "--config", configFile))
		require.NoError(t, err)
		assert.Equal(t, 6, opts.BufferExp)
		assert.Equal(t, "http://localhost:9000", opts.S3Endpoint)
		assert.Equal(t, "yaml", opts.Format)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("SCANTOK_FORMAT", "dump")
		opts, err := loadOptions(viperOn(fs), parseFlags(t, "--config", configFile, "--format=text", "-v"))
		require.NoError(t, err)
		assert.Equal(t, "text", opts.Format)
		assert.True(t, opts.Verbose)
		assert.Equal(t, slog.LevelDebug, opts.logLevel())
	})
}

func TestLoadOptionsErrors(t *testing.T) {
	tests := []struct {
		name string
		fs   afero.Fs
		args []string
		want string
	}{
		{
			name: "unknown format",
			fs:   afero.NewMemMapFs(),
			args: []string{"--format=xml"},
			want: `unknown format "xml"`,
		},
		{
			name: "unknown colour mode",
			fs:   writeConfig(t, "color: sometimes\n"),
			args: []string{"--config", configFile},
			want: `unknown colour mode "sometimes"`,
		},
		{
			name: "missing config",
			fs:   afero.NewMemMapFs(),
			args: []string{"--config", configFile},
			want: "reading config " + configFile,
		},
		{
			name: "bad value type",
			fs:   writeConfig(t, "buffer-exp: [1, 2]\n"),
			args: []string{"--config", configFile},
			want: "decoding settings",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadOptions(viperOn(tt.fs), parseFlags(t, tt.args...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
