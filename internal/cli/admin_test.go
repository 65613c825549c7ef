package cli

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

func TestPrintReport(t *testing.T) {
	ctx := context.Background()
	store := memory.NewResultStore()
	at := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	_ = store.AppendAttempt(ctx, records.NewAttempt(at, "Ana", 2, 3, 2, 2))
	_ = store.AppendAttempt(ctx, records.NewAttempt(at.Add(time.Hour), "Bruno", 0, 0, 2, 0))
	_ = store.AppendAnswerLog(ctx, domain.AnswerLogEntry{Timestamp: at, StudentName: "Ana", QuestionID: "Q1", Level: domain.LevelEasy, Correct: true})
	_ = store.UpsertProgress(ctx, domain.ProgressSnapshot{Timestamp: at, StudentName: "Dora", QuestionIndex: 1, Total: 2, Status: domain.StatusInProgress})

	report, err := app.NewAdminService(store).Report(ctx, 5)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	var out bytes.Buffer
	if err := printReport(&out, report); err != nil {
		t.Fatalf("print: %v", err)
	}

	text := out.String()
	for _, want := range []string{"2 learners", "TOP", "BOTTOM", "RECENT", "DIFFICULTY", "IN PROGRESS", "Ana", "Bruno", "Dora", "1/2", "100.00"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in report:\n%s", want, text)
		}
	}
	if strings.Index(text, "Ana") > strings.Index(text, "Bruno") {
		t.Fatalf("expected Ana ranked above Bruno:\n%s", text)
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	cmd := NewClearCmd(new(string))
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); !errors.Is(err, domain.ErrClearNotConfirmed) {
		t.Fatalf("expected ErrClearNotConfirmed, got %v", err)
	}
}

func TestHashPasswordFromStdin(t *testing.T) {
	cmd := NewHashPasswordCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("s3cret\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
}
