// Command kompilator translates a source file into text assembly for the
// target register machine (spec.md §6).
//
//	kompilator [-dump-symbols] <source> <output>
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"kompilator/internal/compiler"
)

func main() {
	dumpSymbols := flag.Bool("dump-symbols", false, "print the final symbol table to stderr after a successful compile")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-dump-symbols] <source> <output>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), flag.Arg(1), *dumpSymbols); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(srcPath, outPath string, dumpSymbols bool) error {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return errors.Wrapf(err, "reading %s", srcPath)
	}

	result, symtab := compiler.CompileWithSymbols(string(src))
	if result.Diags.HasErrors() {
		result.Diags.Print(os.Stderr)
		os.Exit(1)
	}

	if dumpSymbols && symtab != nil {
		fmt.Fprint(os.Stderr, symtab.String())
	}

	fullOutPath, err := filepath.Abs(outPath)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", outPath)
	}
	parentDir := filepath.Dir(fullOutPath)
	if _, err := os.Stat(parentDir); err != nil {
		return errors.Wrapf(err, "output directory %s", parentDir)
	}
	if err := os.WriteFile(fullOutPath, []byte(result.Text()), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", fullOutPath)
	}
	return nil
}
