// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package gradual_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/gradual"
	"github.com/wdamron/gradual/ast"
)

func TestParseConfig(t *testing.T) {
	cfg, err := gradual.ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, gradual.DefaultConfig(), cfg)

	cfg, err = gradual.ParseConfig([]byte("max_loop_passes: 2\nshow_error_codes: true\nlog_level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxLoopPasses)
	assert.True(t, cfg.ShowErrorCodes)
	assert.True(t, cfg.WarnUnreachable)
	assert.Equal(t, slog.LevelDebug, cfg.Level())

	_, err = gradual.ParseConfig([]byte("warn_unreachable: false\nstrictness: 3\n"))
	assert.Error(t, err)

	_, err = gradual.ParseConfig([]byte("max_loop_passes: 0\n"))
	var cerr *gradual.ConfigError
	require.True(t, errors.As(err, &cerr), "%v", err)
	assert.Equal(t, "max_loop_passes", cerr.Field)

	_, err = gradual.ParseConfig([]byte("log_level: loud\n"))
	require.True(t, errors.As(err, &cerr), "%v", err)
	assert.Equal(t, "log_level", cerr.Field)
	assert.Equal(t, `invalid config field "log_level": unknown level "loud"`, cerr.Error())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gradual.yaml")
	require.NoError(t, os.WriteFile(path, []byte("warn_unreachable: false\nshow_column_numbers: false\n"), 0o644))

	cfg, err := gradual.LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.WarnUnreachable)
	assert.False(t, cfg.ShowColumnNumbers)
	assert.Equal(t, slog.LevelWarn, cfg.Level())

	_, err = gradual.LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSessionRejectsInvalidConfig(t *testing.T) {
	cfg := gradual.DefaultConfig()
	cfg.MaxLoopPasses = -1
	s, err := gradual.NewSession(gradual.WithLogger(discard), gradual.WithConfig(cfg))
	assert.Nil(t, s)
	var cerr *gradual.ConfigError
	assert.True(t, errors.As(err, &cerr), "%v", err)

	s = newSession(t, gradual.WithConfig(gradual.DefaultConfig()))
	assert.Equal(t, 4, s.Config().MaxLoopPasses)
}

func TestDiagnosticFormat(t *testing.T) {
	d := gradual.Diagnostic{
		Severity: gradual.SeverityError,
		Code:     gradual.IncompatibleReturn,
		Pos:      ast.Pos{Line: 3, Col: 5},
		Message:  "msg",
	}
	cfg := gradual.DefaultConfig()
	assert.Equal(t, "m.py:3:5: error: msg", d.Format(cfg, "m.py"))

	cfg.ShowErrorCodes = true
	assert.Equal(t, "m.py:3:5: error: msg  [IncompatibleReturn]", d.Format(cfg, "m.py"))

	cfg.ShowColumnNumbers = false
	note := d
	note.Severity = gradual.SeverityNote
	assert.Equal(t, "m.py:3: note: msg", note.Format(cfg, "m.py"))

	assert.Equal(t, "3:5: error: msg", d.String())
	assert.Equal(t, "NoMatchingOverload", gradual.NoMatchingOverload.String())
	assert.Equal(t, "ErrorCode(200)", gradual.ErrorCode(200).String())
}

func TestDiagnosticsFilters(t *testing.T) {
	ds := gradual.Diagnostics{
		{Severity: gradual.SeverityError, Code: gradual.NameNotDefined, Message: "a"},
		{Severity: gradual.SeverityNote, Code: gradual.RevealedType, Message: "b"},
		{Severity: gradual.SeverityError, Code: gradual.AttributeNotFound, Message: "c"},
	}
	assert.Equal(t, []string{"a", "c"}, ds.Errors().Messages())
	assert.Equal(t, []string{"b"}, ds.WithCode(gradual.RevealedType).Messages())
	assert.Empty(t, ds.WithCode(gradual.InvalidType))
}
