package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/helios/pkgs/ast"
	"github.com/aledsdavies/helios/pkgs/config"
	"github.com/aledsdavies/helios/pkgs/diagnostics"
	"github.com/aledsdavies/helios/pkgs/engine"
	"github.com/aledsdavies/helios/pkgs/lexer"
	"github.com/aledsdavies/helios/pkgs/manifest"
	"github.com/aledsdavies/helios/pkgs/parser"
)

// Build-time variables - can be set via ldflags
var (
	Version   string = "dev"
	BuildTime string = "unknown"
	GitCommit string = "unknown"
)

const defaultConfigFile = "helios.yaml"

// errReported marks failures whose diagnostics were already printed
var errReported = errors.New("compilation failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// cli holds the flags shared by every subcommand
type cli struct {
	configFile string
	debug      bool

	output   string
	manifest string
	werror   bool
	trace    bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "helios",
		Short: "Compile helios UI programs to C++",
		Long: `helios compiles declarative UI programs into C++ for the vdom runtime.
Settings are read from helios.yaml in the current directory when present;
flags override the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "Path to config file (default: ./helios.yaml if present)")
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "Enable debug output")

	compile := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a source file to C++",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.compile,
	}
	compile.Flags().StringVarP(&c.output, "output", "o", "", "Output path, - for stdout (default: config output)")
	compile.Flags().StringVar(&c.manifest, "manifest", "", "Manifest path; .json writes JSON, anything else CBOR")
	compile.Flags().BoolVar(&c.werror, "werror", false, "Treat warnings as errors")

	check := &cobra.Command{
		Use:   "check [file]",
		Short: "Parse and analyze without generating code",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.check,
	}
	check.Flags().BoolVar(&c.werror, "werror", false, "Treat warnings as errors")

	tokens := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.tokens,
	}

	tree := &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.ast,
	}
	tree.Flags().BoolVar(&c.trace, "trace", false, "Print the parser trace to stderr")

	repl := &cobra.Command{
		Use:   "repl",
		Short: "Compile programs interactively",
		Args:  cobra.NoArgs,
		RunE:  c.repl,
	}

	initCmd := &cobra.Command{
		Use:   "init [title]",
		Short: "Create helios.yaml and a starter program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := "Home"
			if len(args) == 1 {
				title = args[0]
			}
			written, err := engine.Scaffold(".", title)
			for _, path := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
			}
			return err
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version, build time, and git commit information for helios.",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "helios %s\n", Version)
			fmt.Fprintf(out, "Built: %s\n", BuildTime)
			fmt.Fprintf(out, "Commit: %s\n", GitCommit)
		},
	}

	root.AddCommand(compile, check, tokens, tree, repl, initCmd, version)
	return root
}

func (c *cli) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if c.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadConfig reads the explicit config file, or ./helios.yaml when it exists
func (c *cli) loadConfig() (*config.Config, error) {
	if c.configFile != "" {
		return config.Load(c.configFile)
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return config.Load(defaultConfigFile)
	}
	return config.Default(), nil
}

// source resolves the input file from the arguments or the config entry
func (c *cli) source(args []string, cfg *config.Config) (string, []byte, error) {
	path := cfg.Entry
	if len(args) == 1 {
		path = args[0]
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	return path, src, nil
}

// report prints a diagnostic with its source context. Other errors are
// returned unchanged for main to print.
func report(cmd *cobra.Command, err error) error {
	d, ok := diagnostics.As(err)
	if !ok {
		return err
	}
	if rerr := d.Render(cmd.ErrOrStderr()); rerr != nil {
		return rerr
	}
	return errReported
}

func (c *cli) run(cmd *cobra.Command, args []string, mode engine.Mode) (*engine.Result, *config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	name, src, err := c.source(args, cfg)
	if err != nil {
		return nil, nil, err
	}

	result, err := engine.Compile(name, src,
		engine.WithConfig(cfg),
		engine.WithMode(mode),
		engine.WithWarningsAsErrors(c.werror || cfg.WarningsAsErrors),
		engine.WithLogger(c.logger(cmd)),
		engine.WithCompiler("helios "+Version),
	)
	if err != nil {
		return nil, nil, report(cmd, err)
	}
	if err := result.Warnings.Render(cmd.ErrOrStderr()); err != nil {
		return nil, nil, err
	}
	return result, cfg, nil
}

func (c *cli) compile(cmd *cobra.Command, args []string) error {
	result, cfg, err := c.run(cmd, args, engine.GenerateMode)
	if err != nil {
		return err
	}

	output := cfg.Output
	if c.output != "" {
		output = c.output
	}
	if output == "-" {
		_, err = io.WriteString(cmd.OutOrStdout(), result.Output.Code)
		return err
	}
	if err := writeFile(output, []byte(result.Output.Code)); err != nil {
		return err
	}

	path := cfg.Manifest
	if c.manifest != "" {
		path = c.manifest
	}
	if path == "" {
		return nil
	}
	var buf bytes.Buffer
	if filepath.Ext(path) == ".json" {
		err = manifest.EncodeJSON(&buf, result.Manifest)
	} else {
		err = manifest.Encode(&buf, result.Manifest)
	}
	if err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}

func (c *cli) check(cmd *cobra.Command, args []string) error {
	result, _, err := c.run(cmd, args, engine.CheckMode)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d page(s), %d warning(s)\n", len(result.Info.Routes), len(result.Warnings))
	return nil
}

func (c *cli) tokens(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	_, src, err := c.source(args, cfg)
	if err != nil {
		return err
	}
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return report(cmd, err)
	}
	out := cmd.OutOrStdout()
	for _, tok := range toks {
		fmt.Fprintf(out, "%-8s %-10s %q\n", tok.Position(), tok.Type, tok.Raw)
	}
	return nil
}

func (c *cli) ast(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	name, src, err := c.source(args, cfg)
	if err != nil {
		return err
	}
	opts := []parser.Option{parser.WithFilename(name)}
	if c.trace {
		opts = append(opts, parser.WithTrace(cmd.ErrOrStderr()))
	}
	prog, err := parser.Parse(src, opts...)
	if err != nil {
		return report(cmd, err)
	}
	return ast.Fprint(cmd.OutOrStdout(), prog)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}
