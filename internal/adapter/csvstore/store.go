// Package csvstore appends report records to a CSV file the way the reporting
// backend's save_report_csv endpoint does.
package csvstore

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pallapizza/daily-report-runner/internal/domain"
)

// Store appends records to a single CSV file. The header is taken from the
// keys of the first record written to a new file; later rows are written in
// their own key order.
type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a Store for path. The file is created on first Append.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the CSV file location.
func (s *Store) Path() string {
	return s.path
}

// Append writes one record as a CSV row.
func (s *Store) Append(record *domain.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	keys := record.Keys()
	w := csv.NewWriter(f)
	if !exists {
		if err := w.Write(keys); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	row := make([]string, len(keys))
	for i, k := range keys {
		v, _ := record.Get(k)
		row[i] = cell(v)
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", s.path, err)
	}
	return nil
}

// cell renders a JSON value as CSV text: strings unquoted, null empty,
// everything else as compact JSON.
func cell(v json.RawMessage) string {
	if len(v) == 0 || string(v) == "null" {
		return ""
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}
