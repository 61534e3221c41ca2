package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DELPHINIUM_RUNTIME_HEADER", "")
	t.Setenv("DELPHINIUM_ENTRY", "")
	t.Setenv("DELPHINIUM_STACK_HEADROOM", "")
	t.Setenv("DELPHINIUM_DEBUG", "")

	cfg := FromEnv()
	if cfg.RuntimeHeader != DefaultRuntimeHeader {
		t.Errorf("RuntimeHeader = %q, want %q", cfg.RuntimeHeader, DefaultRuntimeHeader)
	}
	if cfg.Entry != DefaultEntry {
		t.Errorf("Entry = %q, want %q", cfg.Entry, DefaultEntry)
	}
	if cfg.StackHeadroom != DefaultStackHeadroom {
		t.Errorf("StackHeadroom = %d, want %d", cfg.StackHeadroom, DefaultStackHeadroom)
	}
	if cfg.Debug {
		t.Errorf("Debug should be off by default")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DELPHINIUM_RUNTIME_HEADER", "js.h")
	t.Setenv("DELPHINIUM_ENTRY", "js_main")
	t.Setenv("DELPHINIUM_STACK_HEADROOM", "9")
	t.Setenv("DELPHINIUM_DEBUG", "1")

	cfg := FromEnv()
	if cfg.RuntimeHeader != "js.h" || cfg.Entry != "js_main" || cfg.StackHeadroom != 9 || !cfg.Debug {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestFromEnvSeesLaterChanges(t *testing.T) {
	t.Setenv("DELPHINIUM_ENTRY", "first")
	if got := FromEnv().Entry; got != "first" {
		t.Fatalf("Entry = %q, want first", got)
	}
	t.Setenv("DELPHINIUM_ENTRY", "second")
	if got := FromEnv().Entry; got != "second" {
		t.Errorf("Entry = %q after change, want second", got)
	}
}
