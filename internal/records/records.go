// Package records encodes stored quiz records in their flat tabular schemas.
package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"logic-quiz-service/internal/domain"
	"logic-quiz-service/internal/scoring"
)

// TimeLayout is the UTC timestamp format of every record.
const TimeLayout = "2006-01-02 15:04:05"

// Set names one of the three record sets.
type Set string

const (
	SetAttempts Set = "attempts"
	SetAnswers  Set = "answers"
	SetProgress Set = "progress"
)

// Sets lists every record set.
var Sets = []Set{SetAttempts, SetAnswers, SetProgress}

var (
	AttemptHeader  = []string{"timestamp_utc", "student_name", "base_correct", "final_points", "total", "percent_official", "max_streak"}
	AnswerHeader   = []string{"timestamp_utc", "student_name", "question_id", "level", "is_correct"}
	ProgressHeader = []string{"timestamp_utc", "student_name", "q_index", "total", "base_correct", "final_points", "percent_official_live", "streak", "max_streak", "status"}
)

// ParseSet validates a record set name.
func ParseSet(raw string) (Set, error) {
	for _, s := range Sets {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownRecordSet, raw)
}

// Header returns the column names of a set.
func (s Set) Header() []string {
	switch s {
	case SetAnswers:
		return AnswerHeader
	case SetProgress:
		return ProgressHeader
	default:
		return AttemptHeader
	}
}

// FileName is the download name of a set.
func (s Set) FileName() string {
	switch s {
	case SetAnswers:
		return "boolean_answers.csv"
	case SetProgress:
		return "boolean_progress.csv"
	default:
		return "boolean_scores.csv"
	}
}

// Stamp truncates t to the stored precision.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func ParseTime(raw string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, strings.TrimSpace(raw), time.UTC)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// NewAttempt builds a finished attempt with its official percentage.
func NewAttempt(now time.Time, name string, baseCorrect, finalPoints, total, maxStreak int) domain.StoredAttempt {
	return domain.StoredAttempt{
		Timestamp:       Stamp(now),
		StudentName:     name,
		BaseCorrect:     baseCorrect,
		FinalPoints:     finalPoints,
		Total:           total,
		PercentOfficial: scoring.Round2(scoring.PercentOfficial(baseCorrect, total)),
		MaxStreak:       maxStreak,
	}
}

func EncodeAttempt(a domain.StoredAttempt) []string {
	return []string{
		FormatTime(a.Timestamp),
		a.StudentName,
		strconv.Itoa(a.BaseCorrect),
		strconv.Itoa(a.FinalPoints),
		strconv.Itoa(a.Total),
		formatPercent(a.PercentOfficial),
		strconv.Itoa(a.MaxStreak),
	}
}

func EncodeAnswer(e domain.AnswerLogEntry) []string {
	correct := "0"
	if e.Correct {
		correct = "1"
	}
	return []string{FormatTime(e.Timestamp), e.StudentName, e.QuestionID, string(e.Level), correct}
}

func EncodeProgress(p domain.ProgressSnapshot) []string {
	return []string{
		FormatTime(p.Timestamp),
		p.StudentName,
		strconv.Itoa(p.QuestionIndex),
		strconv.Itoa(p.Total),
		strconv.Itoa(p.BaseCorrect),
		strconv.Itoa(p.FinalPoints),
		formatPercent(p.PercentLive),
		strconv.Itoa(p.Streak),
		strconv.Itoa(p.MaxStreak),
		string(p.Status),
	}
}

// fieldReader collects the first conversion error over a row.
type fieldReader struct {
	row []string
	err error
}

func (r *fieldReader) str(i int) string {
	if i >= len(r.row) {
		if r.err == nil {
			r.err = fmt.Errorf("missing column %d", i)
		}
		return ""
	}
	return r.row[i]
}

func (r *fieldReader) num(i int) int {
	raw := strings.TrimSpace(r.str(i))
	v, err := strconv.Atoi(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("column %d: %w", i, err)
	}
	return v
}

func (r *fieldReader) dec(i int) float64 {
	raw := strings.TrimSpace(r.str(i))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("column %d: %w", i, err)
	}
	return v
}

func (r *fieldReader) ts(i int) time.Time {
	v, err := ParseTime(r.str(i))
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("column %d: %w", i, err)
	}
	return v
}

func ParseAttempt(row []string) (domain.StoredAttempt, error) {
	r := &fieldReader{row: row}
	a := domain.StoredAttempt{
		Timestamp:       r.ts(0),
		StudentName:     r.str(1),
		BaseCorrect:     r.num(2),
		FinalPoints:     r.num(3),
		Total:           r.num(4),
		PercentOfficial: r.dec(5),
		MaxStreak:       r.num(6),
	}
	return a, r.err
}

func ParseAnswer(row []string) (domain.AnswerLogEntry, error) {
	r := &fieldReader{row: row}
	e := domain.AnswerLogEntry{
		Timestamp:   r.ts(0),
		StudentName: r.str(1),
		QuestionID:  r.str(2),
		Level:       domain.Level(r.str(3)),
		Correct:     r.num(4) == 1,
	}
	return e, r.err
}

func ParseProgress(row []string) (domain.ProgressSnapshot, error) {
	r := &fieldReader{row: row}
	p := domain.ProgressSnapshot{
		Timestamp:     r.ts(0),
		StudentName:   r.str(1),
		QuestionIndex: r.num(2),
		Total:         r.num(3),
		BaseCorrect:   r.num(4),
		FinalPoints:   r.num(5),
		PercentLive:   r.dec(6),
		Streak:        r.num(7),
		MaxStreak:     r.num(8),
		Status:        domain.Status(r.str(9)),
	}
	return p, r.err
}

// Snapshot holds one copy of every record set.
type Snapshot struct {
	Attempts []domain.StoredAttempt
	Answers  []domain.AnswerLogEntry
	Progress []domain.ProgressSnapshot
}

// Rows encodes a set from the snapshot, header excluded.
func (s Snapshot) Rows(set Set) [][]string {
	switch set {
	case SetAnswers:
		rows := make([][]string, 0, len(s.Answers))
		for _, e := range s.Answers {
			rows = append(rows, EncodeAnswer(e))
		}
		return rows
	case SetProgress:
		rows := make([][]string, 0, len(s.Progress))
		for _, p := range s.Progress {
			rows = append(rows, EncodeProgress(p))
		}
		return rows
	default:
		rows := make([][]string, 0, len(s.Attempts))
		for _, a := range s.Attempts {
			rows = append(rows, EncodeAttempt(a))
		}
		return rows
	}
}

// WriteCSV writes the header and rows of a set.
func WriteCSV(w io.Writer, set Set, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(set.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
