package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SplitOptions controls how an input file is divided into parts.
type SplitOptions struct {
	// HasHeader marks the first input line as a header rather than data.
	HasHeader bool

	// IncludeHeader writes the header at the top of every part.
	IncludeHeader bool

	// Header overrides the header line (or supplies one for headerless
	// input). Used only when IncludeHeader is set.
	Header string

	// MaxLines caps lines per part, header included. Defaults to 1,000,000.
	MaxLines int

	// OutDir receives the parts; empty means alongside the input.
	OutDir string
}

// Split divides the file at path into numbered parts
// ("crimes.csv" -> "crimes_001.csv", "crimes_002.csv", ...) of at most
// MaxLines lines each and returns the part paths in order.
func Split(path string, opt SplitOptions) ([]string, error) {
	if opt.MaxLines <= 0 {
		opt.MaxLines = 1_000_000
	}
	if opt.IncludeHeader && !opt.HasHeader && opt.Header == "" {
		return nil, fmt.Errorf("headerless input needs an explicit header to include")
	}

	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	header := opt.Header
	if opt.HasHeader {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			return nil, nil // empty input, nothing to split
		}
		if header == "" {
			header = scanner.Text()
		}
	}

	outDir := opt.OutDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	var (
		parts   []string
		out     *os.File
		w       *bufio.Writer
		lines   int
		partNum int
	)
	closePart := func() error {
		if out == nil {
			return nil
		}
		if err := w.Flush(); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	}

	for scanner.Scan() {
		if out == nil || lines >= opt.MaxLines {
			if err := closePart(); err != nil {
				return nil, err
			}
			partNum++
			part := filepath.Join(outDir, fmt.Sprintf("%s_%03d%s", stem, partNum, ext))
			out, err = os.Create(part)
			if err != nil {
				return nil, err
			}
			w = bufio.NewWriter(out)
			parts = append(parts, part)
			lines = 0
			if opt.IncludeHeader {
				if _, err := w.WriteString(header + "\n"); err != nil {
					out.Close()
					return nil, err
				}
				lines = 1
			}
		}
		if _, err := w.WriteString(scanner.Text() + "\n"); err != nil {
			out.Close()
			return nil, err
		}
		lines++
	}
	if err := scanner.Err(); err != nil {
		closePart()
		return nil, err
	}
	if err := closePart(); err != nil {
		return nil, err
	}
	return parts, nil
}
