// Package csvfile keeps quiz records in three CSV files, one per record set.
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"logic-quiz-service/internal/domain"
	"logic-quiz-service/internal/records"
)

// ResultStore appends rows to boolean_scores.csv, boolean_answers.csv and boolean_progress.csv
// under dir. One mutex serializes every write; progress upserts rewrite the file through a
// temporary file and a rename.
type ResultStore struct {
	dir string
	mu  sync.Mutex
}

// NewResultStore creates dir if needed and writes missing headers.
func NewResultStore(dir string) (*ResultStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	s := &ResultStore{dir: dir}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, set := range records.Sets {
		if err := s.ensureLocked(set); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Path is the file backing a record set.
func (s *ResultStore) Path(set records.Set) string {
	return filepath.Join(s.dir, set.FileName())
}

func (s *ResultStore) AppendAttempt(_ context.Context, attempt domain.StoredAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(records.SetAttempts, records.EncodeAttempt(attempt))
}

func (s *ResultStore) AppendAnswerLog(_ context.Context, entry domain.AnswerLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(records.SetAnswers, records.EncodeAnswer(entry))
}

// UpsertProgress replaces the row of the same learner (case-insensitive) or appends one.
// Rows that cannot be parsed are carried over unchanged.
func (s *ResultStore) UpsertProgress(_ context.Context, snapshot domain.ProgressSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readLocked(records.SetProgress)
	if err != nil {
		return err
	}
	key := domain.LearnerKey(snapshot.StudentName)
	encoded := records.EncodeProgress(snapshot)
	replaced := false
	for i, row := range rows {
		if len(row) > 1 && domain.LearnerKey(row[1]) == key {
			rows[i] = encoded
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, encoded)
	}
	return s.rewriteLocked(records.SetProgress, rows)
}

func (s *ResultStore) LoadAttempts(_ context.Context) ([]domain.StoredAttempt, error) {
	s.mu.Lock()
	rows, err := s.readLocked(records.SetAttempts)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]domain.StoredAttempt, 0, len(rows))
	for _, row := range rows {
		if a, err := records.ParseAttempt(row); err == nil {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *ResultStore) LoadAnswerLogs(_ context.Context) ([]domain.AnswerLogEntry, error) {
	s.mu.Lock()
	rows, err := s.readLocked(records.SetAnswers)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]domain.AnswerLogEntry, 0, len(rows))
	for _, row := range rows {
		if e, err := records.ParseAnswer(row); err == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *ResultStore) LoadProgress(_ context.Context) ([]domain.ProgressSnapshot, error) {
	s.mu.Lock()
	rows, err := s.readLocked(records.SetProgress)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProgressSnapshot, 0, len(rows))
	for _, row := range rows {
		if p, err := records.ParseProgress(row); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// ClearAll truncates every file back to its header.
func (s *ResultStore) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, set := range records.Sets {
		if err := s.rewriteLocked(set, nil); err != nil {
			return err
		}
	}
	return nil
}

// ExportRaw copies a record file byte for byte.
func (s *ResultStore) ExportRaw(_ context.Context, set records.Set, w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLocked(set); err != nil {
		return err
	}
	f, err := os.Open(s.Path(set))
	if err != nil {
		return fmt.Errorf("open %s: %w", set, err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copy %s: %w", set, err)
	}
	return nil
}

func (s *ResultStore) ensureLocked(set records.Set) error {
	info, err := os.Stat(s.Path(set))
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", set, err)
	}
	return s.rewriteLocked(set, nil)
}

func (s *ResultStore) appendLocked(set records.Set, row []string) error {
	if err := s.ensureLocked(set); err != nil {
		return err
	}
	f, err := os.OpenFile(s.Path(set), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", set, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", set, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", set, err)
	}
	return f.Close()
}

// readLocked returns the data rows of a set. Every line is parsed on its own, so a line the CSV
// reader rejects (an unterminated quote, say) is skipped without swallowing the lines after it.
func (s *ResultStore) readLocked(set records.Set) ([][]string, error) {
	f, err := os.Open(s.Path(set))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", set, err)
	}
	defer f.Close()

	header := set.Header()
	var rows [][]string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		r := csv.NewReader(strings.NewReader(scanner.Text()))
		r.FieldsPerRecord = -1
		row, err := r.Read()
		if err != nil {
			continue
		}
		if isHeader(row, header) {
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", set, err)
	}
	return rows, nil
}

func (s *ResultStore) rewriteLocked(set records.Set, rows [][]string) error {
	tmp, err := os.CreateTemp(s.dir, "."+set.FileName()+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", set, err)
	}
	defer os.Remove(tmp.Name())
	if err := records.WriteCSV(tmp, set, rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", set, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp for %s: %w", set, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(set)); err != nil {
		return fmt.Errorf("replace %s: %w", set, err)
	}
	return nil
}

func isHeader(row, header []string) bool {
	if len(row) != len(header) {
		return false
	}
	for i := range row {
		if row[i] != header[i] {
			return false
		}
	}
	return true
}
