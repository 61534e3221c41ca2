package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spaceflint7/delphinium-sub000/pkg/config"
	"github.com/spaceflint7/delphinium-sub000/pkg/driver"
	"github.com/spaceflint7/delphinium-sub000/pkg/errors"
)

func main() {
	cacheStatsFlag := flag.Bool("cache-stats", false, "Show shape cache statistics after compiling")
	astDumpFlag := flag.Bool("ast", false, "Show AST dump before compiling")
	outputFile := flag.String("o", "", "Write generated C to this file instead of standard output")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <script.js>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(64) // Exit code 64: command line usage error
	}
	path := flag.Arg(0)

	cfg := config.FromEnv()
	cfg.CacheStats = cfg.CacheStats || *cacheStatsFlag
	cfg.DumpAST = cfg.DumpAST || *astDumpFlag

	res, err := driver.NewSession(cfg).CompileFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.FormatLine(path, err))
		os.Exit(1)
	}

	if *outputFile == "" {
		os.Stdout.WriteString(res.C)
	} else if werr := os.WriteFile(*outputFile, []byte(res.C), 0o644); werr != nil {
		fmt.Fprintf(os.Stderr, "===> error writing %s: %v\n", *outputFile, werr)
		os.Exit(1)
	}

	if cfg.CacheStats {
		res.Stats.Print(os.Stderr)
	}
}
