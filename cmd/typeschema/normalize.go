package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tsgonest/typeschema/internal/openapi"
)

// runNormalize implements "typeschema normalize": print the component name
// each type name would be registered under, one per line.
func runNormalize(args []string) int {
	fs := flag.NewFlagSet("normalize", flag.ContinueOnError)
	var asyncWrapper string
	fs.StringVar(&asyncWrapper, "async-wrapper", openapi.DefaultAsyncWrapper, "Wrapper type stripped from names")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: typeschema normalize [flags] [name...]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Reads names from stdin, one per line, when none are given.")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return flagExitCode(err)
	}

	n := openapi.NameNormalizer{AsyncWrapper: asyncWrapper}
	if fs.NArg() > 0 {
		for _, name := range fs.Args() {
			fmt.Println(n.Normalize(name))
		}
		return 0
	}

	if err := normalizeLines(n, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// normalizeLines normalizes each non-blank line of r.
func normalizeLines(n openapi.NameNormalizer, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, n.Normalize(line)); err != nil {
			return err
		}
	}
	return sc.Err()
}
