package manifest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Manifest {
	m := New("helios v0.3.0")
	m.Pages = []Page{
		{Var: "page_1", Title: "Home", Route: "/", Index: true, Init: []string{
			"page_1->builder = build_page_1;",
			`Router::add("/", page_1);`,
		}},
		{Var: "page_2", Route: "/about", Init: []string{
			"page_2->builder = build_page_2;",
			`Router::add("/about", page_2);`,
		}},
	}
	return m
}

func TestEncodeDecode(t *testing.T) {
	m := sample()
	m.Seal("app.helios", []byte("page() {}\n"))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m))

	got, err := Decode(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeIsCanonical(t *testing.T) {
	a, err := Marshal(sample())
	require.NoError(t, err)
	b, err := Marshal(sample())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeRejectsOtherVersions(t *testing.T) {
	m := sample()
	m.Version = FormatVersion + 1
	data, err := Marshal(m)
	require.NoError(t, err)

	_, err = Decode(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrVersion)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader("not cbor"))
	assert.Error(t, err)
}

func TestStale(t *testing.T) {
	src := []byte("page() { text(\"hi\") }\n")
	m := sample()
	assert.True(t, m.Stale(src), "unsealed manifests are stale")

	m.Seal("app.helios", src)
	assert.Len(t, m.Digest, 64)
	assert.False(t, m.Stale(src))
	assert.True(t, m.Stale(append(src, ' ')))
}

func TestPageLookup(t *testing.T) {
	p, ok := sample().Page("/about")
	require.True(t, ok)
	assert.Equal(t, "page_2", p.Var)

	_, ok = sample().Page("/missing")
	assert.False(t, ok)
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, sample()))
	out := buf.String()
	assert.Contains(t, out, `"route": "/about"`)
	assert.Contains(t, out, `"index": true`)
	assert.NotContains(t, out, `"digest"`)
}
