// Package engine drives a compilation: parse, analyze and generate, with
// stage timings logged at debug level.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aledsdavies/helios/pkgs/ast"
	"github.com/aledsdavies/helios/pkgs/config"
	"github.com/aledsdavies/helios/pkgs/diagnostics"
	"github.com/aledsdavies/helios/pkgs/generator"
	"github.com/aledsdavies/helios/pkgs/manifest"
	"github.com/aledsdavies/helios/pkgs/parser"
	"github.com/aledsdavies/helios/pkgs/semantic"
)

// Mode determines how far the engine runs
type Mode int

const (
	GenerateMode Mode = iota // Analyze and emit C++
	CheckMode                // Stop after analysis
)

// Engine compiles sources with a fixed configuration
type Engine struct {
	mode     Mode
	logger   *slog.Logger
	config   *config.Config
	werror   bool
	compiler string
}

type Option func(*Engine)

// WithLogger receives stage timings; the default discards them
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithConfig applies a project configuration. It also sets the
// warnings-as-errors policy from the file.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		e.config = cfg
		e.werror = e.werror || cfg.WarningsAsErrors
	}
}

func WithWarningsAsErrors(enabled bool) Option {
	return func(e *Engine) { e.werror = enabled }
}

func WithMode(mode Mode) Option {
	return func(e *Engine) { e.mode = mode }
}

// WithCompiler sets the compiler version stamped into manifests
func WithCompiler(version string) Option {
	return func(e *Engine) { e.compiler = version }
}

// New creates an engine
func New(opts ...Option) *Engine {
	e := &Engine{
		mode:     GenerateMode,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		config:   config.Default(),
		compiler: "helios",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result holds everything a compilation produced. Fields are filled up to
// the stage that failed.
type Result struct {
	Program  *ast.Program
	Info     *semantic.Info
	Output   *generator.Output
	Manifest *manifest.Manifest
	Warnings diagnostics.List
}

// Compile compiles src with a one-off engine
func Compile(name string, src []byte, opts ...Option) (*Result, error) {
	return New(opts...).Compile(name, src)
}

// Compile runs the pipeline over src. name identifies the source in traces
// and in the manifest. User errors are returned as *diagnostics.Diagnostic.
func (e *Engine) Compile(name string, src []byte) (*Result, error) {
	result := &Result{}
	log := e.logger.With("source", name)

	start := time.Now()
	prog, err := parser.Parse(src, parser.WithFilename(name))
	log.Debug("parsed", "duration", time.Since(start), "ok", err == nil)
	if err != nil {
		return result, err
	}
	result.Program = prog

	start = time.Now()
	info, err := semantic.Analyze(prog)
	log.Debug("analyzed", "duration", time.Since(start), "ok", err == nil)
	if err != nil {
		return result, err
	}
	result.Info = info
	result.Warnings = info.Warnings
	for _, w := range info.Warnings {
		log.Debug("warning", "message", w.Message, "line", w.Span.Line)
	}
	if e.werror {
		if err := info.Warnings.Promote(); err != nil {
			return result, err
		}
	}
	if e.mode == CheckMode {
		return result, nil
	}

	start = time.Now()
	out, err := generator.Generate(prog, info,
		generator.WithRuntimeHeader(e.config.Runtime.Header),
		generator.WithCompiler(e.compiler),
	)
	log.Debug("generated", "duration", time.Since(start), "ok", err == nil)
	if err != nil {
		return result, fmt.Errorf("generating %s: %w", name, err)
	}
	out.Manifest.Seal(name, src)
	result.Output = out
	result.Manifest = out.Manifest
	log.Debug("compiled", "pages", len(info.Routes), "bytes", len(out.Code))
	return result, nil
}
