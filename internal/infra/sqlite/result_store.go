// Package sqlite stores quiz records in a single SQLite file through the modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"logic-quiz-service/internal/domain"
	"logic-quiz-service/internal/records"
	_ "modernc.org/sqlite" // registers "sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS quiz_attempts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  timestamp_utc TEXT NOT NULL,
  student_name TEXT NOT NULL,
  base_correct INTEGER NOT NULL,
  final_points INTEGER NOT NULL,
  total INTEGER NOT NULL,
  percent_official REAL NOT NULL,
  max_streak INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_answers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  timestamp_utc TEXT NOT NULL,
  student_name TEXT NOT NULL,
  question_id TEXT NOT NULL,
  level TEXT NOT NULL DEFAULT '',
  is_correct INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_progress (
  student_key TEXT PRIMARY KEY,
  timestamp_utc TEXT NOT NULL,
  student_name TEXT NOT NULL,
  q_index INTEGER NOT NULL,
  total INTEGER NOT NULL,
  base_correct INTEGER NOT NULL,
  final_points INTEGER NOT NULL,
  percent_official_live REAL NOT NULL,
  streak INTEGER NOT NULL,
  max_streak INTEGER NOT NULL,
  status TEXT NOT NULL
);
`

// ResultStore keeps records in three tables. Timestamps are stored as text in the record layout,
// so rows written by other tools with a bad timestamp are skipped on load.
type ResultStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*ResultStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "data/quiz.db"
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &ResultStore{db: db}, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}

func (s *ResultStore) AppendAttempt(ctx context.Context, a domain.StoredAttempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts (timestamp_utc, student_name, base_correct, final_points, total, percent_official, max_streak)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		records.FormatTime(a.Timestamp), a.StudentName, a.BaseCorrect, a.FinalPoints, a.Total, a.PercentOfficial, a.MaxStreak)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (s *ResultStore) AppendAnswerLog(ctx context.Context, e domain.AnswerLogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quiz_answers (timestamp_utc, student_name, question_id, level, is_correct) VALUES (?, ?, ?, ?, ?)`,
		records.FormatTime(e.Timestamp), e.StudentName, e.QuestionID, string(e.Level), e.Correct)
	if err != nil {
		return fmt.Errorf("insert answer log: %w", err)
	}
	return nil
}

func (s *ResultStore) UpsertProgress(ctx context.Context, p domain.ProgressSnapshot) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quiz_progress (student_key, timestamp_utc, student_name, q_index, total, base_correct, final_points, percent_official_live, streak, max_streak, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (student_key) DO UPDATE SET
		   timestamp_utc = excluded.timestamp_utc,
		   student_name = excluded.student_name,
		   q_index = excluded.q_index,
		   total = excluded.total,
		   base_correct = excluded.base_correct,
		   final_points = excluded.final_points,
		   percent_official_live = excluded.percent_official_live,
		   streak = excluded.streak,
		   max_streak = excluded.max_streak,
		   status = excluded.status`,
		domain.LearnerKey(p.StudentName), records.FormatTime(p.Timestamp), p.StudentName, p.QuestionIndex, p.Total,
		p.BaseCorrect, p.FinalPoints, p.PercentLive, p.Streak, p.MaxStreak, string(p.Status))
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

func (s *ResultStore) LoadAttempts(ctx context.Context) ([]domain.StoredAttempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp_utc, student_name, base_correct, final_points, total, percent_official, max_streak
		 FROM quiz_attempts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	defer rows.Close()

	var out []domain.StoredAttempt
	for rows.Next() {
		var ts string
		var a domain.StoredAttempt
		if err := rows.Scan(&ts, &a.StudentName, &a.BaseCorrect, &a.FinalPoints, &a.Total, &a.PercentOfficial, &a.MaxStreak); err != nil {
			continue
		}
		if a.Timestamp, err = records.ParseTime(ts); err != nil {
			continue
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *ResultStore) LoadAnswerLogs(ctx context.Context) ([]domain.AnswerLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp_utc, student_name, question_id, level, is_correct FROM quiz_answers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load answer logs: %w", err)
	}
	defer rows.Close()

	var out []domain.AnswerLogEntry
	for rows.Next() {
		var ts, level string
		var e domain.AnswerLogEntry
		if err := rows.Scan(&ts, &e.StudentName, &e.QuestionID, &level, &e.Correct); err != nil {
			continue
		}
		if e.Timestamp, err = records.ParseTime(ts); err != nil {
			continue
		}
		e.Level = domain.Level(level)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *ResultStore) LoadProgress(ctx context.Context) ([]domain.ProgressSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp_utc, student_name, q_index, total, base_correct, final_points, percent_official_live, streak, max_streak, status
		 FROM quiz_progress ORDER BY timestamp_utc, student_key`)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	defer rows.Close()

	var out []domain.ProgressSnapshot
	for rows.Next() {
		var ts, status string
		var p domain.ProgressSnapshot
		if err := rows.Scan(&ts, &p.StudentName, &p.QuestionIndex, &p.Total, &p.BaseCorrect, &p.FinalPoints,
			&p.PercentLive, &p.Streak, &p.MaxStreak, &status); err != nil {
			continue
		}
		if p.Timestamp, err = records.ParseTime(ts); err != nil {
			continue
		}
		p.Status = domain.Status(status)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *ResultStore) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer tx.Rollback()
	for _, table := range []string{"quiz_attempts", "quiz_answers", "quiz_progress"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}
