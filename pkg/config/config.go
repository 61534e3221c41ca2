// Package config holds the compiler options that are not part of the
// input program: runtime header, entry point name and debug switches.
package config

import (
	"github.com/xyproto/env/v2"
)

const (
	DefaultRuntimeHeader = "runtime.h"
	DefaultEntry         = "main"
	DefaultStackHeadroom = 4
)

// Config is read once per compile.
type Config struct {
	// RuntimeHeader is the header #included at the top of generated C.
	RuntimeHeader string
	// Entry is the symbol of the native entry point wrapper.
	Entry string
	// StackHeadroom is added to the deepest call-argument extent of
	// every function when reserving value-stack slots.
	StackHeadroom int
	// LineDirectives emits a "// line N" comment before each statement.
	LineDirectives bool
	// Debug enables the pass trace written by the driver to stderr.
	Debug bool
	// CacheStats prints shape-cache statistics after a successful compile.
	CacheStats bool
	// DumpAST prints the converted syntax tree before compiling.
	DumpAST bool
}

// Default returns the built-in configuration, ignoring the environment.
func Default() *Config {
	return &Config{
		RuntimeHeader: DefaultRuntimeHeader,
		Entry:         DefaultEntry,
		StackHeadroom: DefaultStackHeadroom,
	}
}

// FromEnv reads DELPHINIUM_* variables on top of the defaults. The
// environment is reloaded on every call, so changes made after the first
// read are seen.
func FromEnv() *Config {
	env.Load()
	cfg := Default()
	cfg.RuntimeHeader = env.Str("DELPHINIUM_RUNTIME_HEADER", DefaultRuntimeHeader)
	cfg.Entry = env.Str("DELPHINIUM_ENTRY", DefaultEntry)
	cfg.StackHeadroom = env.Int("DELPHINIUM_STACK_HEADROOM", DefaultStackHeadroom)
	if cfg.StackHeadroom < 0 {
		cfg.StackHeadroom = 0
	}
	cfg.LineDirectives = env.Bool("DELPHINIUM_LINE_DIRECTIVES")
	cfg.Debug = env.Bool("DELPHINIUM_DEBUG")
	return cfg
}
