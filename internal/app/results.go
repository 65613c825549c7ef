package app

import (
	"context"
	"io"

	"logic-quiz-service/internal/domain"
	"logic-quiz-service/internal/records"
)

// ResultStore persists finished attempts, answer logs and progress snapshots (CSV, Redis, SQL, ...).
// Appends never rewrite earlier records; UpsertProgress keeps one row per learner (case-insensitive).
// Loads skip malformed records instead of failing.
type ResultStore interface {
	AppendAttempt(ctx context.Context, attempt domain.StoredAttempt) error
	AppendAnswerLog(ctx context.Context, entry domain.AnswerLogEntry) error
	UpsertProgress(ctx context.Context, snapshot domain.ProgressSnapshot) error
	LoadAttempts(ctx context.Context) ([]domain.StoredAttempt, error)
	LoadAnswerLogs(ctx context.Context) ([]domain.AnswerLogEntry, error)
	LoadProgress(ctx context.Context) ([]domain.ProgressSnapshot, error)
	ClearAll(ctx context.Context) error
}

// RawExporter is implemented by stores that can stream a record set exactly as it sits on disk.
type RawExporter interface {
	ExportRaw(ctx context.Context, set records.Set, w io.Writer) error
}
