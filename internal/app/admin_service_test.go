package app_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"logic-quiz-service/internal/app"
	"logic-quiz-service/internal/domain"
	"logic-quiz-service/internal/infra/memory"
	"logic-quiz-service/internal/records"
)

func seedResults(t *testing.T, store app.ResultStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	attempts := []domain.StoredAttempt{
		records.NewAttempt(base, "Ana", 20, 40, 30, 6),
		records.NewAttempt(base.Add(time.Hour), "Ana", 25, 60, 30, 9),
		records.NewAttempt(base.Add(2*time.Hour), "Bruno", 10, 12, 30, 2),
		records.NewAttempt(base.Add(3*time.Hour), " Carla ", 30, 465, 30, 30),
	}
	for _, a := range attempts {
		if err := store.AppendAttempt(ctx, a); err != nil {
			t.Fatalf("append attempt: %v", err)
		}
	}
	logs := []domain.AnswerLogEntry{
		{Timestamp: base, StudentName: "Ana", QuestionID: "Q01", Level: domain.LevelEasy, Correct: true},
		{Timestamp: base, StudentName: "Ana", QuestionID: "Q02", Level: domain.LevelEasy, Correct: false},
		{Timestamp: base, StudentName: "Ana", QuestionID: "Q21", Level: "", Correct: true},
	}
	for _, e := range logs {
		if err := store.AppendAnswerLog(ctx, e); err != nil {
			t.Fatalf("append log: %v", err)
		}
	}
	_ = store.UpsertProgress(ctx, domain.ProgressSnapshot{Timestamp: base, StudentName: "Dora", QuestionIndex: 4, Total: 30, Status: domain.StatusInProgress})
	_ = store.UpsertProgress(ctx, domain.ProgressSnapshot{Timestamp: base, StudentName: "Carla", QuestionIndex: 30, Total: 30, Status: domain.StatusFinished})
}

func TestReportRanksBestAttemptPerLearner(t *testing.T) {
	store := memory.NewResultStore()
	seedResults(t, store)
	admin := app.NewAdminService(store)

	report, err := admin.Report(context.Background(), 0)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Learners != 3 || len(report.Top) != 3 {
		t.Fatalf("expected 3 learners, got %d (%+v)", report.Learners, report.Top)
	}
	if report.Top[0].Attempt.StudentName != " Carla " || report.Top[0].Medal != "🥇" {
		t.Fatalf("expected Carla first with gold, got %+v", report.Top[0])
	}
	if report.Top[1].Attempt.FinalPoints != 60 {
		t.Fatalf("expected Ana's best attempt, got %+v", report.Top[1])
	}
	if report.Bottom[0].Attempt.StudentName != "Bruno" {
		t.Fatalf("expected Bruno at the bottom, got %+v", report.Bottom[0])
	}
	if len(report.Recent) != 4 || report.Recent[0].StudentName != " Carla " {
		t.Fatalf("expected recent attempts newest first, got %+v", report.Recent)
	}
	if len(report.InProgress) != 1 || report.InProgress[0].StudentName != "Dora" {
		t.Fatalf("expected only Dora in progress, got %+v", report.InProgress)
	}

	easy, medium := report.Difficulty[0], report.Difficulty[1]
	if easy.Total != 2 || easy.Correct != 1 || easy.Rate != 50 {
		t.Fatalf("unexpected easy stat %+v", easy)
	}
	if medium.Total != 1 || medium.Correct != 1 {
		t.Fatalf("blank level should count as medium, got %+v", medium)
	}
}

func TestReportLimitsRankingSize(t *testing.T) {
	store := memory.NewResultStore()
	seedResults(t, store)
	report, err := app.NewAdminService(store).Report(context.Background(), 1)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report.Top) != 1 || len(report.Bottom) != 1 {
		t.Fatalf("expected single entries, got %d/%d", len(report.Top), len(report.Bottom))
	}
}

func TestExportWritesSchemaHeader(t *testing.T) {
	store := memory.NewResultStore()
	seedResults(t, store)
	admin := app.NewAdminService(store)

	var buf bytes.Buffer
	if err := admin.Export(context.Background(), records.SetAttempts, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d", len(lines))
	}
	if lines[0] != strings.Join(records.AttemptHeader, ",") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "2025-05-01 08:00:00,Ana,20,40,30,66.67,6" {
		t.Fatalf("unexpected first row %q", lines[1])
	}
}

func TestClearAllNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewResultStore()
	seedResults(t, store)
	admin := app.NewAdminService(store)

	if err := admin.ClearAll(ctx, false); !errors.Is(err, domain.ErrClearNotConfirmed) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	attempts, _ := store.LoadAttempts(ctx)
	if len(attempts) != 4 {
		t.Fatalf("unconfirmed clear must not delete records")
	}

	if err := admin.ClearAll(ctx, true); err != nil {
		t.Fatalf("clear: %v", err)
	}
	report, err := admin.Report(ctx, 10)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Learners != 0 || len(report.Recent) != 0 || len(report.InProgress) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
	for _, st := range report.Difficulty {
		if st.Total != 0 || st.Rate != 0 {
			t.Fatalf("expected zero stats, got %+v", st)
		}
	}
}

// ctxStore fails loads whose context is already done.
type ctxStore struct {
	*memory.ResultStore
}

func (s ctxStore) LoadAttempts(ctx context.Context) ([]domain.StoredAttempt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.ResultStore.LoadAttempts(ctx)
}

func TestReportLoadIgnoresCallerCancellation(t *testing.T) {
	store := ctxStore{memory.NewResultStore()}
	seedResults(t, store.ResultStore)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := app.NewAdminService(store).Report(ctx, 3)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report.Top) == 0 {
		t.Fatalf("expected ranked attempts")
	}
}
