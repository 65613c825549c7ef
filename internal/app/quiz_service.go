package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"logic-quiz-service/internal/bank"
	"logic-quiz-service/internal/domain"
)

// SessionRepository abstracts where live sessions are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
	// Live counts active sessions. Redis-backed stores count every instance sharing the database.
	Live(ctx context.Context) (int, error)
}

// QuizService contains the learner-facing use cases.
type QuizService struct {
	sessions SessionRepository
	bank     *bank.Bank
	store    ResultStore
	shuffler *Shuffler
	now      func() time.Time
}

func NewQuizService(sessions SessionRepository, questions *bank.Bank, store ResultStore) *QuizService {
	return NewQuizServiceWithClock(sessions, questions, store, NewShuffler(), time.Now)
}

// NewQuizServiceWithClock is used by tests for deterministic shuffles and timestamps.
func NewQuizServiceWithClock(sessions SessionRepository, questions *bank.Bank, store ResultStore, shuffler *Shuffler, now func() time.Time) *QuizService {
	return &QuizService{
		sessions: sessions,
		bank:     questions,
		store:    store,
		shuffler: shuffler,
		now:      now,
	}
}

// NewSession builds an unregistered session, for transports that own the session themselves.
func (s *QuizService) NewSession() *Session {
	return NewSessionWithClock(uuid.NewString(), s.bank, s.store, s.shuffler, s.now)
}

// Open registers a new session and starts it when a name is given. An invalid name leaves nothing registered.
func (s *QuizService) Open(ctx context.Context, name string) (View, error) {
	session := s.NewSession()
	if strings.TrimSpace(name) != "" {
		view, err := session.Start(ctx, name)
		if err != nil && view.State == StateNaming {
			return view, err
		}
		s.sessions.Put(session)
		return view, err
	}
	s.sessions.Put(session)
	return session.View(), nil
}

func (s *QuizService) Get(_ context.Context, sessionID string) (View, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	return session.View(), nil
}

func (s *QuizService) Start(ctx context.Context, sessionID, name string) (View, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	return session.Start(ctx, name)
}

// Submit resolves the submission against the displayed options and scores it.
func (s *QuizService) Submit(ctx context.Context, sessionID string, submission domain.AnswerSubmission) (Feedback, View, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return Feedback{}, View{}, err
	}
	fb, err := SubmitTo(ctx, session, submission)
	return fb, session.View(), err
}

func (s *QuizService) Acknowledge(ctx context.Context, sessionID string) (View, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	return session.Acknowledge(ctx)
}

func (s *QuizService) Restart(ctx context.Context, sessionID string) (View, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	return session.Restart(ctx)
}

func (s *QuizService) SwitchLearner(_ context.Context, sessionID string) (View, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	return session.SwitchLearner(), nil
}

// Finalize retries saving a finished attempt whose first save failed.
func (s *QuizService) Finalize(ctx context.Context, sessionID string) (View, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	if session.State() != StateFinished {
		return session.View(), domain.ErrNotFinished
	}
	err = session.Finalize(ctx)
	return session.View(), err
}

// LiveSessions reports how many sessions are active.
func (s *QuizService) LiveSessions(ctx context.Context) (int, error) {
	return s.sessions.Live(ctx)
}

// Close drops a session. Unsaved tallies are discarded.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

func (s *QuizService) lookup(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// SubmitTo maps a client submission onto session.SubmitAnswer.
func SubmitTo(ctx context.Context, session *Session, submission domain.AnswerSubmission) (Feedback, error) {
	view := session.View()
	if view.Question == nil || view.State != StateAwaitingAnswer {
		return session.SubmitAnswer(ctx, submission.Choice)
	}
	if submission.QuestionID != "" && submission.QuestionID != view.Question.ID {
		return Feedback{}, domain.ErrQuestionMismatch
	}
	choice := submission.Choice
	if submission.Letter != "" {
		text, ok := view.Question.Resolve(submission.Letter)
		if !ok {
			return Feedback{}, domain.ErrInvalidChoice
		}
		choice = text
	}
	return session.SubmitAnswer(ctx, choice)
}
