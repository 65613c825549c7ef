package domain

import (
	"strings"
	"time"
)

// Level is the difficulty classification of a question.
type Level string

const (
	LevelEasy   Level = "Easy"
	LevelMedium Level = "Medium"
	LevelHard   Level = "Hard"
)

// Levels lists the fixed difficulty levels in display order.
var Levels = []Level{LevelEasy, LevelMedium, LevelHard}

// FallbackRationale is shown when a question has no explanation for an option.
const FallbackRationale = "No explanation is available for this option."

// Question models a multiple-choice item. Options are kept in authored order.
type Question struct {
	ID         string            `json:"id" yaml:"id" validate:"required"`
	Level      Level             `json:"level" yaml:"level" validate:"required"`
	Prompt     string            `json:"prompt" yaml:"prompt" validate:"required"`
	CodeSample string            `json:"code,omitempty" yaml:"code,omitempty"`
	Options    []string          `json:"options" yaml:"options" validate:"len=4,unique,dive,required"`
	Answer     string            `json:"answer" yaml:"answer" validate:"required"`
	Rationale  map[string]string `json:"rationale,omitempty" yaml:"rationale,omitempty"`
}

// HasAnswer reports whether the answer is one of the authored options.
func (q Question) HasAnswer() bool {
	for _, opt := range q.Options {
		if opt == q.Answer {
			return true
		}
	}
	return false
}

// Explain returns the rationale for option, or FallbackRationale.
func (q Question) Explain(option string) string {
	if text, ok := q.Rationale[option]; ok && text != "" {
		return text
	}
	return FallbackRationale
}

// AnswerSubmission is a learner's choice as sent by a client. Either the option text or its
// displayed letter (A, B, ...) identifies the choice; QuestionID, when set, must be the current question.
type AnswerSubmission struct {
	QuestionID string `json:"questionId,omitempty"`
	Choice     string `json:"choice,omitempty"`
	Letter     string `json:"letter,omitempty"`
}

// Status is the lifecycle marker stored with a progress snapshot.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
)

// StoredAttempt is a finished quiz run.
type StoredAttempt struct {
	Timestamp       time.Time `json:"timestampUtc"`
	StudentName     string    `json:"studentName"`
	BaseCorrect     int       `json:"baseCorrect"`
	FinalPoints     int       `json:"finalPoints"`
	Total           int       `json:"total"`
	PercentOfficial float64   `json:"percentOfficial"`
	MaxStreak       int       `json:"maxStreak"`
}

// AnswerLogEntry records the outcome of one submitted answer.
type AnswerLogEntry struct {
	Timestamp   time.Time `json:"timestampUtc"`
	StudentName string    `json:"studentName"`
	QuestionID  string    `json:"questionId"`
	Level       Level     `json:"level"`
	Correct     bool      `json:"isCorrect"`
}

// ProgressSnapshot is the latest known position of a learner. At most one per learner.
type ProgressSnapshot struct {
	Timestamp     time.Time `json:"timestampUtc"`
	StudentName   string    `json:"studentName"`
	QuestionIndex int       `json:"qIndex"`
	Total         int       `json:"total"`
	BaseCorrect   int       `json:"baseCorrect"`
	FinalPoints   int       `json:"finalPoints"`
	PercentLive   float64   `json:"percentOfficialLive"`
	Streak        int       `json:"streak"`
	MaxStreak     int       `json:"maxStreak"`
	Status        Status    `json:"status"`
}

// LearnerKey normalizes a student name for case-insensitive matching.
func LearnerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// LevelStat aggregates answer correctness for one difficulty level.
type LevelStat struct {
	Level   Level   `json:"level"`
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Rate    float64 `json:"rate"`
}

// RankedAttempt is a leaderboard row.
type RankedAttempt struct {
	Position int           `json:"position"`
	Medal    string        `json:"medal,omitempty"`
	Attempt  StoredAttempt `json:"attempt"`
}

// Report is the admin view over all stored records.
type Report struct {
	Top         []RankedAttempt    `json:"top"`
	Bottom      []RankedAttempt    `json:"bottom"`
	Recent      []StoredAttempt    `json:"recent"`
	Difficulty  []LevelStat        `json:"difficulty"`
	InProgress  []ProgressSnapshot `json:"inProgress"`
	Learners    int                `json:"learners"`
	GeneratedAt time.Time          `json:"generatedAt"`
}
