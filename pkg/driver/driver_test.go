package driver

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coregx/coregex"

	"github.com/spaceflint7/delphinium-sub000/pkg/config"
	"github.com/spaceflint7/delphinium-sub000/pkg/errors"
	"github.com/spaceflint7/delphinium-sub000/pkg/source"
)

const scriptsDebug = false

// expectLine matches the header comments of a testdata script:
//
//	// expect_c: <substring of the generated C>
//	// expect_compile_error: <substring of the diagnostic>
var expectLine = mustCompile(`^//\s*expect_(c|compile_error):`)

func mustCompile(pattern string) *coregex.Regexp {
	re, err := coregex.Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

func sourceOf(text string) *source.SourceFile {
	return source.NewSourceFile("inline.js", "", text)
}

// Expectation is what a script's header comments require.
type Expectation struct {
	C            []string
	CompileError string
	HasError     bool
}

func parseExpectation(content string) (*Expectation, bool) {
	exp := &Expectation{}
	found := false
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !expectLine.MatchString(line) {
			continue
		}
		key, value, _ := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "//")), ":")
		value = strings.TrimSpace(value)
		found = true
		if key == "expect_c" {
			exp.C = append(exp.C, value)
		} else {
			exp.CompileError = value
			exp.HasError = true
		}
	}
	return exp, found
}

func TestScripts(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.js"))
	if err != nil {
		t.Fatalf("Failed to list testdata: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("No testdata scripts found")
	}
	session := NewSession(config.Default())
	for _, path := range files {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("Failed to read %q: %v", path, err)
			}
			exp, ok := parseExpectation(string(content))
			if !ok {
				t.Skipf("no expectation comment in %q", path)
			}

			res, cerr := session.CompileFile(path)
			if exp.HasError {
				if cerr == nil {
					t.Fatalf("Expected compile error containing %q, got success", exp.CompileError)
				}
				if !strings.Contains(cerr.Message(), exp.CompileError) {
					t.Errorf("Expected compile error containing %q, got %s", exp.CompileError, errors.FormatLine(path, cerr))
				}
				return
			}
			if cerr != nil {
				t.Fatalf("Unexpected compile error: %s", errors.FormatLine(path, cerr))
			}
			if scriptsDebug {
				t.Logf("%s", res.C)
			}
			for _, want := range exp.C {
				if !strings.Contains(res.C, want) {
					t.Errorf("Expected generated C to contain %q", want)
				}
			}
		})
	}
}

func TestCompileString(t *testing.T) {
	res, err := CompileString(`var x = 1 + 2;`)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Stats.Functions != 1 || len(res.Functions) != 1 {
		t.Errorf("Expected one function, got %d", res.Stats.Functions)
	}
	if !strings.Contains(res.C, "int main(int argc, char **argv)") {
		t.Error("Expected an entry point")
	}
}

func TestMissingFile(t *testing.T) {
	_, err := NewSession(config.Default()).CompileFile(filepath.Join("testdata", "does-not-exist.js"))
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !os.IsNotExist(err.Unwrap()) {
		t.Errorf("Expected the cause to be a missing file, got %v", err.Unwrap())
	}
	if line := errors.FormatLine("", err); !strings.HasPrefix(line, "===> error in testdata/does-not-exist.js:1:1: cannot read file") {
		t.Errorf("Unexpected error line %q", line)
	}
}

func TestTraceAndDump(t *testing.T) {
	cfg := config.Default()
	cfg.Debug = true
	cfg.DumpAST = true
	var diag strings.Builder
	s := &Session{Config: cfg, Diag: &diag}
	if _, err := s.CompileSource(sourceOf("let a = [1, 2];")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	out := diag.String()
	for _, want := range []string{"[delphinium] split: 1 functions", "[delphinium] write: 1 functions", "ArrayExpression"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected diagnostics to contain %q, got:\n%s", want, out)
		}
	}
}
