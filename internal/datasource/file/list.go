package file

import (
	"bufio"
	"os"
	"strings"
)

// ReadList reads a text file line by line and returns its non-empty,
// non-comment lines in order. It is used for URL list files feeding the
// HTTP source: blank lines and lines starting with '#' (after trimming
// whitespace) are skipped.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
