package parser

import (
	"io"
	"sort"
)

// Config controls optional parser behaviour
type Config struct {
	// Filename is used only for trace output
	Filename string

	// Trace receives one line per production entered when non-nil
	Trace io.Writer
}

// DefaultConfig returns the configuration used when no options are given
func DefaultConfig() Config {
	return Config{Filename: "<input>"}
}

// Option configures a Parser
type Option func(*Config)

// WithFilename names the source in trace output
func WithFilename(name string) Option {
	return func(c *Config) { c.Filename = name }
}

// WithTrace writes a production trace to w
func WithTrace(w io.Writer) Option {
	return func(c *Config) { c.Trace = w }
}

// namedArgs is the per-element whitelist of name=value arguments
var namedArgs = map[string][]string{
	"page":   {"style", "route", "id", "cls"},
	"view":   {"style", "cls", "onclick", "onlongpress", "id", "height", "width"},
	"text":   {"style", "cls", "id", "onclick", "onlongpress"},
	"img":    {"style", "cls", "id", "onclick", "height", "width", "alt"},
	"input":  {"style", "cls", "id", "value"},
	"canvas": {"style", "cls", "id", "height", "width"},
}

// AllowedArgs returns the named arguments accepted by element, sorted
func AllowedArgs(element string) []string {
	allowed := append([]string(nil), namedArgs[element]...)
	sort.Strings(allowed)
	return allowed
}

func isAllowedArg(element, name string) bool {
	for _, a := range namedArgs[element] {
		if a == name {
			return true
		}
	}
	return false
}

func isCallbackArg(name string) bool {
	return name == "onclick" || name == "onlongpress"
}

var mathArity = map[string]int{
	"sin":  1,
	"cos":  1,
	"tan":  1,
	"sqrt": 1,
	"pow":  2,
}

var conversions = map[string]bool{
	"to_int":   true,
	"to_str":   true,
	"to_float": true,
}
