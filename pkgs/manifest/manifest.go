// Package manifest describes a compiled program for build tooling: the page
// table, the per-page initialization statements and a digest of the source
// the code was generated from. Manifests travel as canonical CBOR so a dev
// server can cache them byte-for-byte; EncodeJSON exists for people.
package manifest

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// FormatVersion is bumped whenever a field changes meaning
const FormatVersion = 1

// ErrVersion is returned when decoding a manifest of another format version
var ErrVersion = errors.New("manifest: unsupported format version")

// Page is one routed page
type Page struct {
	Var   string `cbor:"1,keyasint" json:"var"`
	Title string `cbor:"2,keyasint,omitempty" json:"title,omitempty"`
	Route string `cbor:"3,keyasint" json:"route"`
	Index bool   `cbor:"4,keyasint,omitempty" json:"index,omitempty"`

	// Init holds the statements main runs to register the page
	Init []string `cbor:"5,keyasint" json:"init"`
}

type Manifest struct {
	Version  int    `cbor:"1,keyasint" json:"version"`
	Compiler string `cbor:"2,keyasint" json:"compiler"`
	Source   string `cbor:"3,keyasint,omitempty" json:"source,omitempty"`
	Digest   string `cbor:"4,keyasint,omitempty" json:"digest,omitempty"`
	Pages    []Page `cbor:"5,keyasint" json:"pages"`
}

// New returns an empty manifest stamped with the compiler version
func New(compiler string) *Manifest {
	return &Manifest{Version: FormatVersion, Compiler: compiler}
}

// Digest returns the hex BLAKE2b-256 of src
func Digest(src []byte) string {
	sum := blake2b.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// Seal records the source file the manifest was generated from
func (m *Manifest) Seal(name string, src []byte) {
	m.Source = name
	m.Digest = Digest(src)
}

// Stale reports whether src no longer matches the sealed digest. An unsealed
// manifest is always stale.
func (m *Manifest) Stale(src []byte) bool {
	return m.Digest == "" || m.Digest != Digest(src)
}

// Page returns the page registered for route
func (m *Manifest) Page(route string) (Page, bool) {
	for _, p := range m.Pages {
		if p.Route == route {
			return p, true
		}
	}
	return Page{}, false
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CanonicalEncOptions().EncMode(); err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Encode writes m as canonical CBOR
func Encode(w io.Writer, m *Manifest) error {
	if err := encMode.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return nil
}

// Marshal is Encode into a byte slice
func Marshal(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a CBOR manifest written by Encode
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := decMode.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if m.Version != FormatVersion {
		return nil, fmt.Errorf("%w %d", ErrVersion, m.Version)
	}
	return &m, nil
}

// EncodeJSON writes m as indented JSON
func EncodeJSON(w io.Writer, m *Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
