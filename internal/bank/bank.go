// Package bank holds the immutable question catalog.
package bank

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	"logic-quiz-service/internal/domain"
)

// Loader fetches catalog content from a backing store (YAML file, Postgres, ...).
type Loader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// Bank is an order-stable, read-only sequence of questions.
type Bank struct {
	questions []domain.Question
	byID      map[string]int
}

var validate = validator.New()

// New validates questions and builds a Bank. Structural errors fail the load; a question whose
// answer is missing from its options is kept and repaired when its options are shuffled.
func New(questions []domain.Question) (*Bank, error) {
	b := &Bank{
		questions: make([]domain.Question, 0, len(questions)),
		byID:      make(map[string]int, len(questions)),
	}
	for _, q := range questions {
		if err := validate.Struct(q); err != nil {
			return nil, fmt.Errorf("question %q: %w", q.ID, err)
		}
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateQuestion, q.ID)
		}
		if !q.HasAnswer() {
			log.Printf("question %s: answer %q is not among its options", q.ID, q.Answer)
		}
		b.byID[q.ID] = len(b.questions)
		b.questions = append(b.questions, cloneQuestion(q))
	}
	return b, nil
}

// Load builds a Bank from a Loader.
func Load(ctx context.Context, loader Loader) (*Bank, error) {
	questions, err := loader.LoadQuestions(ctx)
	if err != nil {
		return nil, err
	}
	return New(questions)
}

// Len is the catalog size.
func (b *Bank) Len() int {
	return len(b.questions)
}

// At returns the question at position i.
func (b *Bank) At(i int) domain.Question {
	return cloneQuestion(b.questions[i])
}

// Lookup finds a question by id.
func (b *Bank) Lookup(id string) (domain.Question, bool) {
	i, ok := b.byID[id]
	if !ok {
		return domain.Question{}, false
	}
	return cloneQuestion(b.questions[i]), true
}

// All returns a copy of the catalog in authored order.
func (b *Bank) All() []domain.Question {
	out := make([]domain.Question, len(b.questions))
	for i, q := range b.questions {
		out[i] = cloneQuestion(q)
	}
	return out
}

func cloneQuestion(q domain.Question) domain.Question {
	q.Options = append([]string(nil), q.Options...)
	if q.Rationale != nil {
		rationale := make(map[string]string, len(q.Rationale))
		for k, v := range q.Rationale {
			rationale[k] = v
		}
		q.Rationale = rationale
	}
	return q
}

// FileLoader reads a YAML catalog of the form `questions: [...]`.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var doc struct {
		Questions []domain.Question `yaml:"questions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return doc.Questions, nil
}

// StaticLoader serves a fixed slice (useful for tests/demos).
type StaticLoader struct {
	questions []domain.Question
}

func NewStaticLoader(questions []domain.Question) *StaticLoader {
	return &StaticLoader{questions: questions}
}

func (l *StaticLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	return l.questions, nil
}
