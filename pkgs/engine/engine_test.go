package engine

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/helios/pkgs/config"
	"github.com/aledsdavies/helios/pkgs/diagnostics"
	"github.com/aledsdavies/helios/pkgs/manifest"
)

const counter = `page("Counter") {
	@state x : 0
	view(onclick=() { x = x + 1 }) {
		text(to_str(x))
	}
}
`

func TestCompile(t *testing.T) {
	result, err := Compile("counter.helios", []byte(counter), WithCompiler("helios test"))
	require.NoError(t, err)

	require.NotNil(t, result.Output)
	assert.Contains(t, result.Output.Code, "x->set((x->get() + 1));")
	assert.Empty(t, result.Warnings)

	m := result.Manifest
	require.NotNil(t, m)
	assert.Equal(t, "counter.helios", m.Source)
	assert.Equal(t, "helios test", m.Compiler)
	assert.Equal(t, manifest.Digest([]byte(counter)), m.Digest)
	assert.False(t, m.Stale([]byte(counter)))
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		category diagnostics.Category
		stage    func(*Result) bool
	}{
		{
			name:     "syntax error stops before analysis",
			input:    `page("A") { view( }`,
			category: diagnostics.Syntax,
			stage:    func(r *Result) bool { return r.Program == nil },
		},
		{
			name:     "semantic error keeps the program",
			input:    "page() { text(1) }\n",
			category: diagnostics.Semantic,
			stage:    func(r *Result) bool { return r.Program != nil && r.Info == nil },
		},
		{
			name:     "duplicate index page",
			input:    "page(\"A\") { }\npage(\"B\") { }\n",
			category: diagnostics.Semantic,
			stage:    func(r *Result) bool { return r.Output == nil },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Compile("bad.helios", []byte(tt.input))
			d, ok := diagnostics.As(err)
			require.True(t, ok, "expected a diagnostic, got %v", err)
			assert.Equal(t, tt.category, d.Category)
			assert.True(t, tt.stage(result))
		})
	}
}

const unusedFunction = `def helper() {
	print("never")
}
page("P") { text("p") }
`

func TestWarnings(t *testing.T) {
	result, err := Compile("warn.helios", []byte(unusedFunction))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.True(t, result.Warnings[0].IsWarning())

	_, err = Compile("warn.helios", []byte(unusedFunction), WithWarningsAsErrors(true))
	d, ok := diagnostics.As(err)
	require.True(t, ok)
	assert.Equal(t, diagnostics.Semantic, d.Category)
	assert.Contains(t, d.Message, "helper")

	cfg := config.Default()
	cfg.WarningsAsErrors = true
	_, err = Compile("warn.helios", []byte(unusedFunction), WithConfig(cfg))
	assert.Error(t, err)
}

func TestCheckMode(t *testing.T) {
	result, err := Compile("counter.helios", []byte(counter), WithMode(CheckMode))
	require.NoError(t, err)
	assert.NotNil(t, result.Info)
	assert.Nil(t, result.Output)
	assert.Nil(t, result.Manifest)
}

func TestConfigRuntimeHeader(t *testing.T) {
	cfg := config.Default()
	cfg.Runtime.Header = "third_party/vdom.hpp"
	result, err := Compile("counter.helios", []byte(counter), WithConfig(cfg))
	require.NoError(t, err)
	assert.Contains(t, result.Output.Code, `#include "third_party/vdom.hpp"`)
}

func TestStageTimingsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Compile("counter.helios", []byte(counter), WithLogger(logger))
	require.NoError(t, err)
	for _, stage := range []string{"msg=parsed", "msg=analyzed", "msg=generated", "msg=compiled"} {
		assert.Contains(t, buf.String(), stage)
	}
	assert.Contains(t, buf.String(), "source=counter.helios")
}

func TestScaffold(t *testing.T) {
	dir := t.TempDir()
	written, err := Scaffold(dir, "Hello")
	require.NoError(t, err)
	require.Len(t, written, 2)

	cfg, err := config.Load(filepath.Join(dir, "helios.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "manifest.cbor", cfg.Manifest)

	src, err := os.ReadFile(filepath.Join(dir, cfg.Entry))
	require.NoError(t, err)
	result, err := Compile(cfg.Entry, src, WithConfig(cfg))
	require.NoError(t, err)
	assert.Contains(t, result.Output.Code, `page.setTitle("Hello");`)

	_, err = Scaffold(dir, "Again")
	assert.ErrorIs(t, err, os.ErrExist)
}
