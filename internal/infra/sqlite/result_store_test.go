package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"logic-quiz-service/internal/domain"
	"logic-quiz-service/internal/records"
)

func openStore(t *testing.T) *ResultStore {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndLoad(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	at := time.Date(2025, 7, 8, 9, 10, 11, 0, time.UTC)

	if err := store.AppendAttempt(ctx, records.NewAttempt(at, "Ana", 1, 1, 3, 1)); err != nil {
		t.Fatalf("append attempt: %v", err)
	}
	if err := store.AppendAnswerLog(ctx, domain.AnswerLogEntry{Timestamp: at, StudentName: "Ana", QuestionID: "Q07", Level: domain.LevelMedium, Correct: true}); err != nil {
		t.Fatalf("append log: %v", err)
	}
	// a row with an unreadable timestamp
	if _, err := store.db.ExecContext(ctx, `INSERT INTO quiz_attempts (timestamp_utc, student_name, base_correct, final_points, total, percent_official, max_streak)
		VALUES ('yesterday', 'Bruno', 1, 1, 1, 100, 1)`); err != nil {
		t.Fatalf("insert malformed: %v", err)
	}

	attempts, err := store.LoadAttempts(ctx)
	if err != nil {
		t.Fatalf("load attempts: %v", err)
	}
	if len(attempts) != 1 || attempts[0].StudentName != "Ana" || attempts[0].PercentOfficial != 33.33 || !attempts[0].Timestamp.Equal(at) {
		t.Fatalf("unexpected attempts %+v", attempts)
	}
	logs, err := store.LoadAnswerLogs(ctx)
	if err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 1 || !logs[0].Correct || logs[0].Level != domain.LevelMedium {
		t.Fatalf("unexpected logs %+v", logs)
	}
}

func TestUpsertProgressAndClear(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	at := time.Date(2025, 7, 8, 9, 10, 11, 0, time.UTC)

	_ = store.UpsertProgress(ctx, domain.ProgressSnapshot{Timestamp: at, StudentName: "Ana", QuestionIndex: 1, Total: 30, Status: domain.StatusInProgress})
	if err := store.UpsertProgress(ctx, domain.ProgressSnapshot{Timestamp: at, StudentName: "ANA", QuestionIndex: 30, Total: 30, PercentLive: 96.67, Status: domain.StatusFinished}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	progress, err := store.LoadProgress(ctx)
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if len(progress) != 1 || progress[0].StudentName != "ANA" || progress[0].Status != domain.StatusFinished || progress[0].PercentLive != 96.67 {
		t.Fatalf("unexpected progress %+v", progress)
	}

	_ = store.AppendAttempt(ctx, records.NewAttempt(at, "Ana", 1, 1, 1, 1))
	if err := store.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	attempts, _ := store.LoadAttempts(ctx)
	progress, _ = store.LoadProgress(ctx)
	if len(attempts) != 0 || len(progress) != 0 {
		t.Fatalf("expected empty tables after clear")
	}
	if err := store.AppendAttempt(ctx, records.NewAttempt(at, "Bruno", 1, 1, 1, 1)); err != nil {
		t.Fatalf("append after clear: %v", err)
	}
}
