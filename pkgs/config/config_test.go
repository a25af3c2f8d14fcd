package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Config
	}{
		{
			name:  "empty document uses defaults",
			input: "",
			want:  Default(),
		},
		{
			name: "full yaml",
			input: `entry: src/app.helios
output: web/generated.cpp
manifest: web/manifest.cbor
runtime: { header: vdom.hpp, version: v1.2.0 }
warnings_as_errors: true
`,
			want: &Config{
				Entry:            "src/app.helios",
				Output:           "web/generated.cpp",
				Manifest:         "web/manifest.cbor",
				Runtime:          Runtime{Header: "vdom.hpp", Version: "v1.2.0"},
				WarningsAsErrors: true,
			},
		},
		{
			name:  "json document",
			input: `{"entry": "main.helios", "runtime": {"header": "vdom.hpp", "version": "v1.0.0"}}`,
			want: &Config{
				Entry:   "main.helios",
				Output:  "generated.cpp",
				Runtime: Runtime{Header: "vdom.hpp", Version: "v1.0.0"},
			},
		},
		{
			name:  "missing keys keep defaults",
			input: "output: out.cpp\n",
			want: &Config{
				Entry:   "app.helios",
				Output:  "out.cpp",
				Runtime: Runtime{Header: "vdom.hpp", Version: MinRuntimeVersion},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown key", "entrypoint: app.helios\n"},
		{"wrong type", "warnings_as_errors: sometimes\n"},
		{"empty entry", "entry: \"\"\n"},
		{"not semver", "runtime: { version: latest }\n"},
		{"unknown runtime key", "runtime: { path: x }\n"},
		{"not a mapping", "- a\n- b\n"},
		{"malformed yaml", "entry: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestRuntimeTooOld(t *testing.T) {
	_, err := Parse([]byte("runtime: { header: vdom.hpp, version: v0.9.0 }\n"))
	assert.ErrorIs(t, err, ErrRuntimeVersion)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "helios.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entry: pages.helios\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pages.helios", cfg.Entry)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
