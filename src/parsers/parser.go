package parsers

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// sourceFile is one parsed CSV export.
type sourceFile struct {
	Path   string
	Tag    string // filename tag, e.g. "Avanza" for data/avanza-2024.csv
	Header []string
	Rows   [][]string
}

// readSourceFiles loads every file in dir matching pattern. The repair
// function, when non-nil, is applied to each header cell to fix known
// encoding damage in the export.
func readSourceFiles(ctx context.Context, dir, pattern string, sep rune, repair func(string) string) ([]sourceFile, error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	sort.Strings(paths)

	var files []sourceFile
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}

		reader := csv.NewReader(f)
		reader.Comma = sep
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if len(records) == 0 {
			continue
		}

		header := make([]string, len(records[0]))
		for i, cell := range records[0] {
			cell = strings.TrimSpace(cell)
			if repair != nil {
				cell = repair(cell)
			}
			header[i] = cell
		}

		files = append(files, sourceFile{
			Path:   path,
			Tag:    fileTag(path),
			Header: header,
			Rows:   records[1:],
		})
	}

	return files, nil
}

// fileTag derives the source tag from a file name: "data/avanza-depot.csv"
// becomes "Depot", "data/avanza.csv" becomes "Avanza".
func fileTag(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".csv")
	if parts := strings.SplitN(name, "-", 2); len(parts) == 2 {
		name = parts[1]
	}
	if name == "" {
		return name
	}
	runes := []rune(strings.ToLower(name))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// rowReader resolves canonical column names against a file header. When the
// same target column appears more than once (Avanza exports carry both
// "Courtage" and "Courtage (SEK)"), the first non-empty cell wins.
type rowReader struct {
	indexes map[string][]int
}

func newRowReader(header []string, colMap map[string]string) *rowReader {
	indexes := make(map[string][]int)
	for i, cell := range header {
		target := cell
		if colMap != nil {
			if mapped, ok := colMap[cell]; ok {
				target = mapped
			}
		}
		indexes[target] = append(indexes[target], i)
	}
	return &rowReader{indexes: indexes}
}

func (r *rowReader) has(col string) bool {
	return len(r.indexes[col]) > 0
}

func (r *rowReader) get(record []string, col string) string {
	for _, i := range r.indexes[col] {
		if i < len(record) {
			if v := strings.TrimSpace(record[i]); v != "" {
				return v
			}
		}
	}
	return ""
}

// requireColumns fails with a DataError when a canonical column is absent
// from the header after renaming.
func requireColumns(adapter string, r *rowReader, cols ...string) error {
	for _, col := range cols {
		if !r.has(col) {
			return &DataError{Adapter: adapter, Column: col, Err: ErrMissingColumn}
		}
	}
	return nil
}

// CleanupNumber parses a numeric cell the way broker exports write them:
// whitespace-padded, "-" for zero, decimal comma and space or dot thousand
// separators. An empty cell yields nil. Unparseable values yield a DataError
// naming the adapter, column and value.
func CleanupNumber(adapter, column, raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	if s == "-" {
		zero := 0.0
		return &zero, nil
	}

	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			// Dot is the thousand separator, comma the decimal one.
			s = strings.ReplaceAll(s, ".", "")
		}
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &DataError{Adapter: adapter, Column: column, Value: raw, Err: err}
	}
	return &v, nil
}
