package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"logic-quiz-service/internal/app"
	"logic-quiz-service/internal/bank"
	"logic-quiz-service/internal/domain"
	"logic-quiz-service/internal/infra/memory"
)

func TestOpenStartsSessionWithName(t *testing.T) {
	ctx := context.Background()
	service, sessions, _ := newTestService(t)

	view, err := service.Open(ctx, "Alice")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if view.SessionID == "" || view.State != app.StateAwaitingAnswer {
		t.Fatalf("expected started session, got %+v", view)
	}
	if sessions.Len() != 1 {
		t.Fatalf("expected session registered, got %d", sessions.Len())
	}
}

func TestOpenRejectsShortNameWithoutRegistering(t *testing.T) {
	service, sessions, _ := newTestService(t)

	_, err := service.Open(context.Background(), "Al")
	if !errors.Is(err, domain.ErrNameTooShort) {
		t.Fatalf("expected name error, got %v", err)
	}
	if sessions.Len() != 0 {
		t.Fatalf("expected nothing registered, got %d", sessions.Len())
	}
}

func TestOpenWithoutNameWaitsForStart(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	view, err := service.Open(ctx, "")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if view.State != app.StateNaming {
		t.Fatalf("expected NAMING, got %s", view.State)
	}
	view, err = service.Start(ctx, view.SessionID, "Alice")
	if err != nil || view.State != app.StateAwaitingAnswer {
		t.Fatalf("start failed: %v %+v", err, view)
	}
}

func TestSubmitByLetterAndQuestionCheck(t *testing.T) {
	ctx := context.Background()
	service, _, store := newTestService(t)

	view, _ := service.Open(ctx, "Alice")
	id := view.SessionID
	current := view.Question

	_, _, err := service.Submit(ctx, id, domain.AnswerSubmission{QuestionID: "other", Letter: "A"})
	if !errors.Is(err, domain.ErrQuestionMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	_, _, err = service.Submit(ctx, id, domain.AnswerSubmission{Letter: "Z"})
	if !errors.Is(err, domain.ErrInvalidChoice) {
		t.Fatalf("expected invalid letter, got %v", err)
	}

	fb, after, err := service.Submit(ctx, id, domain.AnswerSubmission{QuestionID: current.ID, Letter: "b"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if fb.Choice != current.Choices[1].Text {
		t.Fatalf("expected letter B to resolve to %q, got %q", current.Choices[1].Text, fb.Choice)
	}
	if after.State != app.StateAwaitingAck || after.Feedback == nil {
		t.Fatalf("expected feedback pending, got %+v", after)
	}

	logs, _ := store.LoadAnswerLogs(ctx)
	if len(logs) != 1 || logs[0].QuestionID != current.ID || logs[0].StudentName != "Alice" {
		t.Fatalf("unexpected answer log %+v", logs)
	}
}

func TestServiceRunToCompletion(t *testing.T) {
	ctx := context.Background()
	service, _, store := newTestService(t)
	b := bank.Default()

	view, _ := service.Open(ctx, "Alice")
	id := view.SessionID
	for view.State != app.StateFinished {
		q, ok := b.Lookup(view.Question.ID)
		if !ok {
			t.Fatalf("unknown question %s", view.Question.ID)
		}
		if _, _, err := service.Submit(ctx, id, domain.AnswerSubmission{Choice: q.Answer}); err != nil {
			t.Fatalf("submit: %v", err)
		}
		var err error
		if view, err = service.Acknowledge(ctx, id); err != nil {
			t.Fatalf("ack: %v", err)
		}
	}

	if view.Tally.BaseCorrect != b.Len() || view.Tally.MaxStreak != b.Len() {
		t.Fatalf("unexpected tally %+v", view.Tally)
	}
	// n correct in a row score n(n+1)/2.
	if want := b.Len() * (b.Len() + 1) / 2; view.Tally.FinalPoints != want {
		t.Fatalf("expected %d points, got %d", want, view.Tally.FinalPoints)
	}
	attempts, _ := store.LoadAttempts(ctx)
	if len(attempts) != 1 || attempts[0].PercentOfficial != 100 {
		t.Fatalf("unexpected attempts %+v", attempts)
	}
}

func TestUnknownSessionAndClose(t *testing.T) {
	ctx := context.Background()
	service, sessions, _ := newTestService(t)

	if _, err := service.Get(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, _, err := service.Submit(ctx, "missing", domain.AnswerSubmission{Letter: "A"}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error, got %v", err)
	}

	view, _ := service.Open(ctx, "Alice")
	service.Close(ctx, view.SessionID)
	if sessions.Len() != 0 {
		t.Fatalf("expected session dropped")
	}
	if _, err := service.Acknowledge(ctx, view.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error after close, got %v", err)
	}
}

func TestSwitchLearnerThroughService(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	view, _ := service.Open(ctx, "Alice")
	view, err := service.SwitchLearner(ctx, view.SessionID)
	if err != nil || view.State != app.StateNaming {
		t.Fatalf("expected NAMING, got %v %+v", err, view)
	}
	view, err = service.Start(ctx, view.SessionID, "Bruno")
	if err != nil || view.StudentName != "Bruno" {
		t.Fatalf("expected new learner, got %v %+v", err, view)
	}
}

func newTestService(t *testing.T) (*app.QuizService, *memory.SessionStore, *memory.ResultStore) {
	t.Helper()
	sessions := memory.NewSessionStore()
	store := memory.NewResultStore()
	now := func() time.Time { return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC) }
	service := app.NewQuizServiceWithClock(sessions, bank.Default(), store, app.NewSeededShuffler(7), now)
	return service, sessions, store
}
