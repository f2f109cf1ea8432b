package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// pdfFlags holds all flags for the pdf command.
type pdfFlags struct {
	config  string
	baseURL string
	workers int
	timeout string
	quiet   bool
	verbose bool
}

// parsePDFFlags parses pdf command flags and returns positional args.
func parsePDFFlags(args []string) (*pdfFlags, []string, error) {
	fs := flag.NewFlagSet("pdf", flag.ContinueOnError)
	f := &pdfFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.baseURL, "base-url", "b", "", "base URL for external links")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-page render timeout (e.g., 30s, 2m)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug output")

	fs.Usage = func() { printPDFUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
