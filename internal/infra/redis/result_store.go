package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"logic-quiz-service/internal/domain"
)

// ResultStore keeps records as JSON in Redis.
// Attempts and answer logs are lists:  RPUSH quiz:results:attempts {json}
// Progress is a hash keyed by learner: HSET  quiz:results:progress {lower(trim(name))} {json}
type ResultStore struct {
	client *redis.Client
}

func NewResultStore(client *redis.Client) *ResultStore {
	return &ResultStore{client: client}
}

const (
	attemptsKey = "quiz:results:attempts"
	answersKey  = "quiz:results:answers"
	progressKey = "quiz:results:progress"
)

func (s *ResultStore) AppendAttempt(ctx context.Context, attempt domain.StoredAttempt) error {
	return s.push(ctx, attemptsKey, attempt)
}

func (s *ResultStore) AppendAnswerLog(ctx context.Context, entry domain.AnswerLogEntry) error {
	return s.push(ctx, answersKey, entry)
}

func (s *ResultStore) UpsertProgress(ctx context.Context, snapshot domain.ProgressSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := s.client.HSet(ctx, progressKey, domain.LearnerKey(snapshot.StudentName), data).Err(); err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

func (s *ResultStore) LoadAttempts(ctx context.Context) ([]domain.StoredAttempt, error) {
	return loadList[domain.StoredAttempt](ctx, s.client, attemptsKey)
}

func (s *ResultStore) LoadAnswerLogs(ctx context.Context) ([]domain.AnswerLogEntry, error) {
	return loadList[domain.AnswerLogEntry](ctx, s.client, answersKey)
}

// LoadProgress returns snapshots oldest first; hash order is not meaningful.
func (s *ResultStore) LoadProgress(ctx context.Context) ([]domain.ProgressSnapshot, error) {
	raw, err := s.client.HGetAll(ctx, progressKey).Result()
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	out := make([]domain.ProgressSnapshot, 0, len(raw))
	for _, v := range raw {
		var p domain.ProgressSnapshot
		if err := json.Unmarshal([]byte(v), &p); err != nil {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return domain.LearnerKey(out[i].StudentName) < domain.LearnerKey(out[j].StudentName)
	})
	return out, nil
}

func (s *ResultStore) ClearAll(ctx context.Context) error {
	if err := s.client.Del(ctx, attemptsKey, answersKey, progressKey).Err(); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	return nil
}

func (s *ResultStore) push(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("append %s: %w", key, err)
	}
	return nil
}

// loadList decodes every element of a list, skipping the ones that are not valid JSON.
func loadList[T any](ctx context.Context, client *redis.Client, key string) ([]T, error) {
	raw, err := client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	out := make([]T, 0, len(raw))
	for _, v := range raw {
		var item T
		if err := json.Unmarshal([]byte(v), &item); err != nil {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
