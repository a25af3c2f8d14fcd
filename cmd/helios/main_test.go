package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/helios/pkgs/manifest"
)

// execute runs the CLI in dir and returns stdout, stderr and the error
func execute(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
}

func TestCompileCommand(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "app.helios", `page("Home") { text("hi") }`)

	_, _, err := execute(t, dir, "compile", "app.helios", "-o", "web/out.cpp", "--manifest", "web/manifest.cbor")
	require.NoError(t, err)

	code, err := os.ReadFile(filepath.Join(dir, "web", "out.cpp"))
	require.NoError(t, err)
	assert.Contains(t, string(code), `VNode text_1("p", "hi");`)

	f, err := os.Open(filepath.Join(dir, "web", "manifest.cbor"))
	require.NoError(t, err)
	defer f.Close()
	m, err := manifest.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, "app.helios", m.Source)
	require.Len(t, m.Pages, 1)
	assert.Equal(t, "/", m.Pages[0].Route)
}

func TestCompileToStdout(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "app.helios", `page("Home") { view() }`)

	stdout, _, err := execute(t, dir, "compile", "app.helios", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "int main() {")
}

func TestCompileReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "app.helios", "page() {\n\ttext(1)\n}\n")

	_, stderr, err := execute(t, dir, "compile", "app.helios", "-o", "-")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "SemanticError: 'text' expects a string but got: 'int' at line 2")
	assert.Contains(t, stderr, "  2 | \ttext(1)")
}

func TestCheckUsesConfigEntry(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "helios.yaml", "entry: main.helios\n")
	writeSource(t, dir, "main.helios", "page(\"A\") { }\npage(\"B\", route=\"/b\") { }\n")

	stdout, _, err := execute(t, dir, "check")
	require.NoError(t, err)
	assert.Equal(t, "ok: 2 page(s), 0 warning(s)\n", stdout)
}

func TestCheckWerror(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "app.helios", "def unused() {\n\tprint(1)\n}\n")

	_, stderr, err := execute(t, dir, "check", "app.helios")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: Function 'unused' is declared but never called")

	_, _, err = execute(t, dir, "check", "app.helios", "--werror")
	assert.ErrorIs(t, err, errReported)
}

func TestDebugDumps(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "app.helios", "x = 1\n")

	stdout, _, err := execute(t, dir, "tokens", "app.helios")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"x"`)

	stdout, _, err = execute(t, dir, "ast", "app.helios")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Assign x @1:1")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := execute(t, dir, "init", "Demo")
	require.NoError(t, err)
	assert.Contains(t, stdout, "helios.yaml")

	stdout, _, err = execute(t, dir, "compile", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, `page.setTitle("Demo");`)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "helios dev")
}
