// Package corpus loads the flat-text conformance corpus. A corpus file is
// a sequence of cases; a line starting with the four-byte marker "!!! "
// opens a case and names it, and every line up to the next marker is the
// case's literal source.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// marker opens a case boundary line.
const marker = "!!! "

// Case is one corpus entry. Line is the 1-based line number of the marker
// in its file, which disambiguates cases sharing a name.
type Case struct {
	Name   string
	Line   int
	Source string
}

// Label returns the case's unique identity within a corpus load,
// "name:line".
func (c Case) Label() string {
	return c.Name + ":" + strconv.Itoa(c.Line)
}

// Parse reads cases from r. Source lines are newline-joined with a
// trailing newline appended; line terminators are chomped but blank lines
// are kept verbatim. Text before the first marker is an error.
func Parse(r io.Reader) ([]Case, error) {
	var (
		cases   []Case
		current *Case
		lines   []string
		lineNo  int
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Source = strings.Join(lines, "\n") + "\n"
		cases = append(cases, *current)
		current, lines = nil, nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.HasPrefix(line, marker) {
			flush()
			name := strings.TrimSpace(line[len(marker):])
			if name == "" {
				return nil, fmt.Errorf("corpus: line %d: empty case name", lineNo)
			}
			current = &Case{Name: name, Line: lineNo}
			continue
		}
		if current == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			return nil, fmt.Errorf("corpus: line %d: content before first case marker", lineNo)
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("corpus: read: %w", err)
	}
	flush()
	return cases, nil
}

// Load reads the cases of a single corpus file.
func Load(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	defer f.Close()
	cases, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("corpus: %s: %w", path, err)
	}
	return cases, nil
}

// LoadDir loads every .txt corpus file under dir, sorted by path so the
// resulting case order is stable across runs.
func LoadDir(dir string) ([]Case, error) {
	var all []Case
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".txt" {
			return nil
		}
		cases, err := Load(path)
		if err != nil {
			return err
		}
		all = append(all, cases...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("corpus: walk %s: %w", dir, err)
	}
	return all, nil
}
