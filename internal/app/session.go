package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"logic-quiz-service/internal/bank"
	"logic-quiz-service/internal/domain"
	"logic-quiz-service/internal/records"
	"logic-quiz-service/internal/scoring"
)

// MinNameLength is the minimum learner name length after trimming.
const MinNameLength = 3

// Records are stored one per line, so line breaks in names become spaces.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// State is the position of a session in its lifecycle.
type State string

const (
	StateNaming         State = "NAMING"
	StateAwaitingAnswer State = "AWAITING_ANSWER"
	StateAwaitingAck    State = "AWAITING_ACK"
	StateFinished       State = "FINISHED"
)

// Choice is an option as displayed, with its letter.
type Choice struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// QuestionView is the current question with its session-stable option order.
type QuestionView struct {
	ID         string       `json:"id"`
	Level      domain.Level `json:"level"`
	Prompt     string       `json:"prompt"`
	CodeSample string       `json:"code,omitempty"`
	Choices    []Choice     `json:"choices"`
	Number     int          `json:"number"`
}

// Resolve maps a displayed letter (case-insensitive) to its option text.
func (v QuestionView) Resolve(letter string) (string, bool) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	for _, c := range v.Choices {
		if c.Letter == letter {
			return c.Text, true
		}
	}
	return "", false
}

// Feedback describes the outcome of the last submitted answer.
type Feedback struct {
	QuestionID      string       `json:"questionId"`
	Level           domain.Level `json:"level"`
	Choice          string       `json:"choice"`
	Correct         bool         `json:"correct"`
	Bonus           int          `json:"bonus"`
	Answer          string       `json:"answer"`
	Rationale       string       `json:"rationale"`
	AnswerRationale string       `json:"answerRationale"`
}

// Tally is the live scoreboard of a session.
type Tally struct {
	Index       int     `json:"index"`
	Total       int     `json:"total"`
	BaseCorrect int     `json:"baseCorrect"`
	FinalPoints int     `json:"finalPoints"`
	Streak      int     `json:"streak"`
	MaxStreak   int     `json:"maxStreak"`
	PercentLive float64 `json:"percentOfficialLive"`
	Progress    float64 `json:"progress"`
}

// View is a read-only snapshot of a session for presentation layers.
type View struct {
	SessionID   string        `json:"sessionId"`
	State       State         `json:"state"`
	StudentName string        `json:"studentName,omitempty"`
	Tally       Tally         `json:"tally"`
	Question    *QuestionView `json:"question,omitempty"`
	Feedback    *Feedback     `json:"feedback,omitempty"`
	Saved       bool          `json:"saved"`
}

// Session is one learner's run through the catalog.
type Session struct {
	id       string
	bank     *bank.Bank
	store    ResultStore
	shuffler *Shuffler
	now      func() time.Time

	mu          sync.Mutex
	studentName string
	order       []int
	current     int
	baseCorrect int
	finalPoints int
	streak      int
	maxStreak   int
	feedback    *Feedback
	fixedOrder  map[string][]string
	saved       bool
}

// NewSession builds a session in the NAMING state.
func NewSession(id string, questions *bank.Bank, store ResultStore, shuffler *Shuffler) *Session {
	return NewSessionWithClock(id, questions, store, shuffler, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(id string, questions *bank.Bank, store ResultStore, shuffler *Shuffler, now func() time.Time) *Session {
	return &Session{
		id:         id,
		bank:       questions,
		store:      store,
		shuffler:   shuffler,
		now:        now,
		fixedOrder: make(map[string][]string),
	}
}

// ID identifies the session.
func (s *Session) ID() string {
	return s.id
}

// Start validates the learner name and begins a fresh randomized run.
func (s *Session) Start(ctx context.Context, name string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := strings.TrimSpace(lineBreaks.Replace(name))
	if utf8.RuneCountInString(trimmed) < MinNameLength {
		return s.viewLocked(), domain.ErrNameTooShort
	}
	s.studentName = trimmed
	err := s.beginLocked(ctx)
	return s.viewLocked(), err
}

// Restart begins a new run for the same learner, discarding the tallies of an unfinished run.
// A finished run whose save failed is saved first; if that save fails again nothing is reset.
func (s *Session) Restart(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.studentName == "" {
		return s.viewLocked(), domain.ErrNotStarted
	}
	if s.stateLocked() == StateFinished && !s.saved {
		if err := s.finishLocked(ctx); err != nil {
			return s.viewLocked(), err
		}
	}
	err := s.beginLocked(ctx)
	return s.viewLocked(), err
}

// SwitchLearner clears the identity and returns to NAMING.
func (s *Session) SwitchLearner() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.studentName = ""
	s.resetLocked(nil)
	return s.viewLocked()
}

// SubmitAnswer scores choice against the current question. The answer log is written first; when
// that write fails the session is left untouched.
func (s *Session) SubmitAnswer(ctx context.Context, choice string) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(StateAwaitingAnswer); err != nil {
		return Feedback{}, err
	}

	q := s.currentQuestionLocked()
	if !contains(s.fixedOrderLocked(q), choice) {
		return Feedback{}, domain.ErrInvalidChoice
	}
	correct := choice == q.Answer

	entry := domain.AnswerLogEntry{
		Timestamp:   records.Stamp(s.now()),
		StudentName: s.studentName,
		QuestionID:  q.ID,
		Level:       q.Level,
		Correct:     correct,
	}
	if err := s.store.AppendAnswerLog(ctx, entry); err != nil {
		return Feedback{}, fmt.Errorf("append answer log: %w", err)
	}

	bonus := 0
	if correct {
		s.baseCorrect++
		s.streak++
		if s.streak > s.maxStreak {
			s.maxStreak = s.streak
		}
		bonus = scoring.StreakBonus(s.streak)
		s.finalPoints += 1 + bonus
	} else {
		s.streak = 0
	}

	s.feedback = &Feedback{
		QuestionID:      q.ID,
		Level:           q.Level,
		Choice:          choice,
		Correct:         correct,
		Bonus:           bonus,
		Answer:          q.Answer,
		Rationale:       q.Explain(choice),
		AnswerRationale: q.Explain(q.Answer),
	}
	s.snapshotLocked(ctx, domain.StatusInProgress)
	return *s.feedback, nil
}

// Acknowledge closes the feedback of the last answer and advances. Reaching the end of the
// catalog persists the finished attempt; the returned error reports a failed save, in which case
// Finalize may be retried.
func (s *Session) Acknowledge(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(StateAwaitingAck); err != nil {
		return s.viewLocked(), err
	}
	delete(s.fixedOrder, s.feedback.QuestionID)
	s.feedback = nil
	s.current++

	var err error
	if s.current >= len(s.order) {
		err = s.finishLocked(ctx)
	}
	return s.viewLocked(), err
}

// Finalize persists the finished attempt if it has not been saved yet.
func (s *Session) Finalize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stateLocked() != StateFinished {
		return nil
	}
	return s.finishLocked(ctx)
}

// FixedOrder returns the session-stable shuffled options of q, creating them on first use.
func (s *Session) FixedOrder(q domain.Question) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fixedOrderLocked(q)...)
}

// View snapshots the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// State reports the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) beginLocked(ctx context.Context) error {
	s.resetLocked(s.shuffler.Perm(s.bank.Len()))
	if len(s.order) == 0 {
		return s.finishLocked(ctx)
	}
	s.snapshotLocked(ctx, domain.StatusInProgress)
	return nil
}

func (s *Session) resetLocked(order []int) {
	s.order = order
	s.current = 0
	s.baseCorrect = 0
	s.finalPoints = 0
	s.streak = 0
	s.maxStreak = 0
	s.feedback = nil
	s.fixedOrder = make(map[string][]string)
	s.saved = false
}

func (s *Session) stateLocked() State {
	switch {
	case s.studentName == "":
		return StateNaming
	case s.current >= len(s.order):
		return StateFinished
	case s.feedback != nil:
		return StateAwaitingAck
	default:
		return StateAwaitingAnswer
	}
}

func (s *Session) requireLocked(want State) error {
	got := s.stateLocked()
	if got == want {
		return nil
	}
	switch got {
	case StateNaming:
		return domain.ErrNotStarted
	case StateFinished:
		return domain.ErrQuizFinished
	case StateAwaitingAck:
		return domain.ErrAwaitingAck
	default:
		return domain.ErrNoFeedback
	}
}

func (s *Session) currentQuestionLocked() domain.Question {
	return s.bank.At(s.order[s.current])
}

func (s *Session) fixedOrderLocked(q domain.Question) []string {
	if opts, ok := s.fixedOrder[q.ID]; ok {
		return opts
	}
	opts := s.shuffler.ShufflePreservingAnswer(q.Options, q.Answer)
	s.fixedOrder[q.ID] = opts
	return opts
}

func (s *Session) finishLocked(ctx context.Context) error {
	if s.saved {
		return nil
	}
	attempt := records.NewAttempt(s.now(), s.studentName, s.baseCorrect, s.finalPoints, len(s.order), s.maxStreak)
	if err := s.store.AppendAttempt(ctx, attempt); err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}
	s.saved = true
	s.snapshotLocked(ctx, domain.StatusFinished)
	return nil
}

// snapshotLocked upserts the progress row. Failures are logged; the snapshot is best-effort.
func (s *Session) snapshotLocked(ctx context.Context, status domain.Status) {
	tally := s.tallyLocked()
	answered := tally.Index
	if s.feedback != nil {
		answered++
	}
	snapshot := domain.ProgressSnapshot{
		Timestamp:     records.Stamp(s.now()),
		StudentName:   s.studentName,
		QuestionIndex: answered,
		Total:         tally.Total,
		BaseCorrect:   tally.BaseCorrect,
		FinalPoints:   tally.FinalPoints,
		PercentLive:   tally.PercentLive,
		Streak:        tally.Streak,
		MaxStreak:     tally.MaxStreak,
		Status:        status,
	}
	if err := s.store.UpsertProgress(ctx, snapshot); err != nil {
		log.Printf("session %s: progress snapshot for %s failed: %v", s.id, s.studentName, err)
	}
}

func (s *Session) tallyLocked() Tally {
	total := len(s.order)
	if s.studentName == "" {
		total = s.bank.Len()
	}
	progress := 0.0
	if total > 0 {
		progress = float64(s.current) / float64(total)
	}
	return Tally{
		Index:       s.current,
		Total:       total,
		BaseCorrect: s.baseCorrect,
		FinalPoints: s.finalPoints,
		Streak:      s.streak,
		MaxStreak:   s.maxStreak,
		PercentLive: scoring.Round2(scoring.PercentOfficial(s.baseCorrect, total)),
		Progress:    progress,
	}
}

func (s *Session) viewLocked() View {
	v := View{
		SessionID:   s.id,
		State:       s.stateLocked(),
		StudentName: s.studentName,
		Tally:       s.tallyLocked(),
		Saved:       s.saved,
	}
	if v.State == StateAwaitingAnswer || v.State == StateAwaitingAck {
		q := s.currentQuestionLocked()
		opts := s.fixedOrderLocked(q)
		choices := make([]Choice, len(opts))
		for i, opt := range opts {
			choices[i] = Choice{Letter: string(rune('A' + i)), Text: opt}
		}
		v.Question = &QuestionView{
			ID:         q.ID,
			Level:      q.Level,
			Prompt:     q.Prompt,
			CodeSample: q.CodeSample,
			Choices:    choices,
			Number:     s.current + 1,
		}
	}
	if s.feedback != nil {
		fb := *s.feedback
		v.Feedback = &fb
	}
	return v
}

func contains(opts []string, value string) bool {
	for _, o := range opts {
		if o == value {
			return true
		}
	}
	return false
}
