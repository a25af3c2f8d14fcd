package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/aledsdavies/helios/pkgs/diagnostics"
	"github.com/aledsdavies/helios/pkgs/engine"
)

const (
	historyFile = ".helios_history"
	promptMain  = "helios> "
	promptCont  = "   ...> "
)

const replHelp = `Enter a program; an empty line compiles it.
  :quit   exit
  :clear  discard the buffer`

func (c *cli) repl(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	eng := engine.New(
		engine.WithConfig(cfg),
		engine.WithLogger(c.logger(cmd)),
		engine.WithCompiler("helios "+Version),
	)
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	fmt.Fprintln(out, replHelp)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readProgram(ln)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		switch strings.TrimSpace(src) {
		case "":
			continue
		case ":quit":
			return nil
		case ":clear":
			continue
		}

		result, err := eng.Compile("<repl>", []byte(src))
		if err != nil {
			if d, ok := diagnostics.As(err); ok {
				_ = d.Render(errOut)
			} else {
				fmt.Fprintln(errOut, "Error:", err)
			}
			continue
		}
		_ = result.Warnings.Render(errOut)
		fmt.Fprint(out, result.Output.Code)
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
}

// readProgram collects lines until an empty one. Commands starting with ':'
// are returned on their own.
func readProgram(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return b.String(), true
		}
		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true
		}
		if strings.TrimSpace(line) == "" {
			return b.String(), true
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
}
