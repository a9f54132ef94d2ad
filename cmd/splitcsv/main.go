// Command splitcsv divides a large extract into numbered parts small enough
// to process as independent batches, propagating the header into each part.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	var (
		path       string
		maxLines   int
		noHeader   bool
		skipHeader bool
		header     string
		outDir     string
	)

	flag.StringVar(&path, "file", "", "file to split (required)")
	flag.IntVar(&maxLines, "max-lines", 1_000_000, "max lines per part, header included")
	flag.BoolVar(&noHeader, "no-header", false, "input has no header line")
	flag.BoolVar(&skipHeader, "skip-header", false, "do not write a header into the parts")
	flag.StringVar(&header, "header", "", "header override (or header for headerless input)")
	flag.StringVar(&outDir, "out-dir", "", "output directory (default: alongside the input)")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: splitcsv -file <path> [-max-lines n] [-out-dir dir]")
		os.Exit(2)
	}

	parts, err := Split(path, SplitOptions{
		HasHeader:     !noHeader,
		IncludeHeader: !skipHeader,
		Header:        header,
		MaxLines:      maxLines,
		OutDir:        outDir,
	})
	if err != nil {
		log.Fatalf("split %s: %v", path, err)
	}

	log.Printf("split %s into %d parts", path, len(parts))
	if *verbose {
		for _, p := range parts {
			log.Printf("wrote %s", p)
		}
	}
}
