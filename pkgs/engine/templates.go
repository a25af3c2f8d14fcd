package engine

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/aledsdavies/helios/pkgs/config"
)

// Starter project written by Scaffold
const (
	configTemplate = `entry: {{.Entry}}
output: {{.Output}}
manifest: {{.Manifest}}
runtime: { header: {{.Header}}, version: {{.Version}} }
warnings_as_errors: false
`

	appTemplate = `@state count : 0

stylesheet {
	.counter { font-size: 24px; }
}

page("{{.Title}}") {
	view(cls="counter", onclick=() { count = count + 1 }) {
		text(to_str(count))
	}
}
`
)

var templates = template.Must(template.New("config").Parse(configTemplate))

func init() {
	template.Must(templates.New("app").Parse(appTemplate))
}

// ScaffoldData fills the starter templates
type ScaffoldData struct {
	Title    string
	Entry    string
	Output   string
	Manifest string
	Header   string
	Version  string
}

// Scaffold writes helios.yaml and an entry source into dir. Existing files
// are never overwritten.
func Scaffold(dir, title string) ([]string, error) {
	defaults := config.Default()
	data := ScaffoldData{
		Title:    title,
		Entry:    defaults.Entry,
		Output:   defaults.Output,
		Manifest: "manifest.cbor",
		Header:   defaults.Runtime.Header,
		Version:  defaults.Runtime.Version,
	}
	files := []struct {
		name     string
		template string
	}{
		{"helios.yaml", "config"},
		{data.Entry, "app"},
	}

	var written []string
	for _, f := range files {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, f.template, data); err != nil {
			return written, fmt.Errorf("rendering %s: %w", f.name, err)
		}
		path := filepath.Join(dir, f.name)
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return written, fmt.Errorf("creating %s: %w", path, err)
		}
		_, err = file.Write(buf.Bytes())
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
