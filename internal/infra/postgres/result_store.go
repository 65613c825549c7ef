package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"logic-quiz-service/internal/domain"
)

// OpenDB returns a bun handle over pgdriver.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

type attemptRow struct {
	bun.BaseModel `bun:"table:quiz_attempts"`

	ID              int64     `bun:"id,pk,autoincrement"`
	Timestamp       time.Time `bun:"timestamp_utc,notnull"`
	StudentName     string    `bun:"student_name,notnull"`
	BaseCorrect     int       `bun:"base_correct,notnull"`
	FinalPoints     int       `bun:"final_points,notnull"`
	Total           int       `bun:"total,notnull"`
	PercentOfficial float64   `bun:"percent_official,notnull"`
	MaxStreak       int       `bun:"max_streak,notnull"`
}

type answerRow struct {
	bun.BaseModel `bun:"table:quiz_answers"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Timestamp   time.Time `bun:"timestamp_utc,notnull"`
	StudentName string    `bun:"student_name,notnull"`
	QuestionID  string    `bun:"question_id,notnull"`
	Level       string    `bun:"level,notnull"`
	Correct     bool      `bun:"is_correct,notnull"`
}

type progressRow struct {
	bun.BaseModel `bun:"table:quiz_progress"`

	StudentKey    string    `bun:"student_key,pk"`
	Timestamp     time.Time `bun:"timestamp_utc,notnull"`
	StudentName   string    `bun:"student_name,notnull"`
	QuestionIndex int       `bun:"q_index,notnull"`
	Total         int       `bun:"total,notnull"`
	BaseCorrect   int       `bun:"base_correct,notnull"`
	FinalPoints   int       `bun:"final_points,notnull"`
	PercentLive   float64   `bun:"percent_official_live,notnull"`
	Streak        int       `bun:"streak,notnull"`
	MaxStreak     int       `bun:"max_streak,notnull"`
	Status        string    `bun:"status,notnull"`
}

// ResultStore persists records in the quiz_attempts, quiz_answers and quiz_progress tables
// created by the migrations package.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) AppendAttempt(ctx context.Context, a domain.StoredAttempt) error {
	row := &attemptRow{
		Timestamp:       a.Timestamp.UTC(),
		StudentName:     a.StudentName,
		BaseCorrect:     a.BaseCorrect,
		FinalPoints:     a.FinalPoints,
		Total:           a.Total,
		PercentOfficial: a.PercentOfficial,
		MaxStreak:       a.MaxStreak,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (s *ResultStore) AppendAnswerLog(ctx context.Context, e domain.AnswerLogEntry) error {
	row := &answerRow{
		Timestamp:   e.Timestamp.UTC(),
		StudentName: e.StudentName,
		QuestionID:  e.QuestionID,
		Level:       string(e.Level),
		Correct:     e.Correct,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert answer log: %w", err)
	}
	return nil
}

func (s *ResultStore) UpsertProgress(ctx context.Context, p domain.ProgressSnapshot) error {
	row := &progressRow{
		StudentKey:    domain.LearnerKey(p.StudentName),
		Timestamp:     p.Timestamp.UTC(),
		StudentName:   p.StudentName,
		QuestionIndex: p.QuestionIndex,
		Total:         p.Total,
		BaseCorrect:   p.BaseCorrect,
		FinalPoints:   p.FinalPoints,
		PercentLive:   p.PercentLive,
		Streak:        p.Streak,
		MaxStreak:     p.MaxStreak,
		Status:        string(p.Status),
	}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (student_key) DO UPDATE").
		Set("timestamp_utc = EXCLUDED.timestamp_utc").
		Set("student_name = EXCLUDED.student_name").
		Set("q_index = EXCLUDED.q_index").
		Set("total = EXCLUDED.total").
		Set("base_correct = EXCLUDED.base_correct").
		Set("final_points = EXCLUDED.final_points").
		Set("percent_official_live = EXCLUDED.percent_official_live").
		Set("streak = EXCLUDED.streak").
		Set("max_streak = EXCLUDED.max_streak").
		Set("status = EXCLUDED.status").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

func (s *ResultStore) LoadAttempts(ctx context.Context) ([]domain.StoredAttempt, error) {
	var rows []attemptRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	out := make([]domain.StoredAttempt, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.StoredAttempt{
			Timestamp:       r.Timestamp.UTC(),
			StudentName:     r.StudentName,
			BaseCorrect:     r.BaseCorrect,
			FinalPoints:     r.FinalPoints,
			Total:           r.Total,
			PercentOfficial: r.PercentOfficial,
			MaxStreak:       r.MaxStreak,
		})
	}
	return out, nil
}

func (s *ResultStore) LoadAnswerLogs(ctx context.Context) ([]domain.AnswerLogEntry, error) {
	var rows []answerRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("load answer logs: %w", err)
	}
	out := make([]domain.AnswerLogEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.AnswerLogEntry{
			Timestamp:   r.Timestamp.UTC(),
			StudentName: r.StudentName,
			QuestionID:  r.QuestionID,
			Level:       domain.Level(r.Level),
			Correct:     r.Correct,
		})
	}
	return out, nil
}

func (s *ResultStore) LoadProgress(ctx context.Context) ([]domain.ProgressSnapshot, error) {
	var rows []progressRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("timestamp_utc ASC, student_key ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	out := make([]domain.ProgressSnapshot, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.ProgressSnapshot{
			Timestamp:     r.Timestamp.UTC(),
			StudentName:   r.StudentName,
			QuestionIndex: r.QuestionIndex,
			Total:         r.Total,
			BaseCorrect:   r.BaseCorrect,
			FinalPoints:   r.FinalPoints,
			PercentLive:   r.PercentLive,
			Streak:        r.Streak,
			MaxStreak:     r.MaxStreak,
			Status:        domain.Status(r.Status),
		})
	}
	return out, nil
}

// ClearAll truncates the result tables; the schema stays.
func (s *ResultStore) ClearAll(ctx context.Context) error {
	_, err := s.db.NewTruncateTable().
		Table("quiz_attempts", "quiz_answers", "quiz_progress").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("truncate results: %w", err)
	}
	return nil
}
