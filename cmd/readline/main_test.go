package main

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"regexp"
	"testing"

	"github.com/go-kit/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var outputPattern = regexp.MustCompile(`^Counted (\d+) characters in ([0-9.]+) seconds\n$`)

func setConfig(t *testing.T, method, unit string, paths ...string) {
	t.Helper()
	saved := cfg
	t.Cleanup(func() { cfg = saved })
	cfg.method = method
	cfg.unit = unit
	cfg.paths = paths
}

func Test_Run(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "a.txt", []byte("ab\nc\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "b.txt", []byte("héllo\n"), 0o644))

	tests := []struct {
		method, unit string
		paths        []string
		want         string
	}{
		{"callback", "runes", []string{"a.txt"}, "5"},
		{"iterator", "runes", []string{"a.txt", "b.txt"}, "11"},
		{"channel", "bytes", []string{"a.txt", "b.txt"}, "12"},
	}
	for _, tt := range tests {
		t.Run(tt.method+"/"+tt.unit, func(t *testing.T) {
			setConfig(t, tt.method, tt.unit, tt.paths...)
			var out bytes.Buffer
			require.NoError(t, run(context.Background(), fsys, &out))

			m := outputPattern.FindStringSubmatch(out.String())
			require.NotNil(t, m, "unexpected output %q", out.String())
			assert.Equal(t, tt.want, m[1])
		})
	}
}

func Test_Run_MissingFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "a.txt", []byte("ab\nc\n"), 0o644))
	setConfig(t, "callback", "runes", "a.txt", "nope.txt")

	var out bytes.Buffer
	err := run(context.Background(), fsys, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Empty(t, out.String())
}

func Test_Run_InvalidMethod(t *testing.T) {
	setConfig(t, "generator", "runes", "a.txt")
	err := run(context.Background(), afero.NewMemMapFs(), &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown read method")
}

func Test_FormatSeconds(t *testing.T) {
	assert.Equal(t, "0.0125", formatSeconds(0.0125))
	assert.Equal(t, "2", formatSeconds(2))
}

func Test_Run_LogsMetrics(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "a.txt", []byte("ab\nc\n"), 0o644))
	setConfig(t, "callback", "runes", "a.txt")

	var logs bytes.Buffer
	saved := logger
	t.Cleanup(func() { logger = saved })
	logger = log.NewLogfmtLogger(&logs)

	require.NoError(t, run(context.Background(), fsys, &bytes.Buffer{}))
	assert.Contains(t, logs.String(), "name=iterfile_charcount_files_total value=1")
	assert.Contains(t, logs.String(), "name=iterfile_charcount_lines_total value=2")
	assert.Contains(t, logs.String(), "name=iterfile_charcount_characters_total unit=runes value=5")
}
