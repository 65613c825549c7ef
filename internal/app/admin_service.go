package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"
	"logic-quiz-service/internal/domain"
	"logic-quiz-service/internal/leaderboard"
	"logic-quiz-service/internal/records"
)

const (
	// DefaultRankingSize is the length of the top and bottom lists.
	DefaultRankingSize = 10
	recentAttempts     = 25
)

// AdminService serves rankings and exports. It reads only from the ResultStore.
type AdminService struct {
	store ResultStore
	now   func() time.Time
	sf    singleflight.Group
}

func NewAdminService(store ResultStore) *AdminService {
	return &AdminService{store: store, now: time.Now}
}

// Report loads every record set and aggregates it. Concurrent callers asking for the same size
// share one load.
func (a *AdminService) Report(ctx context.Context, size int) (domain.Report, error) {
	if size <= 0 {
		size = DefaultRankingSize
	}
	result, err, _ := a.sf.Do("report:"+strconv.Itoa(size), func() (interface{}, error) {
		snap, err := a.load(context.WithoutCancel(ctx))
		if err != nil {
			return domain.Report{}, err
		}
		return BuildReport(snap, size, a.now()), nil
	})
	if err != nil {
		return domain.Report{}, err
	}
	return result.(domain.Report), nil
}

// BuildReport aggregates a snapshot. Only finished attempts are ranked.
func BuildReport(snap records.Snapshot, size int, now time.Time) domain.Report {
	best := leaderboard.Values(leaderboard.BestPerLearner(snap.Attempts))
	return domain.Report{
		Top:         leaderboard.Top(best, size),
		Bottom:      leaderboard.Bottom(best, size),
		Recent:      leaderboard.Recent(snap.Attempts, recentAttempts),
		Difficulty:  leaderboard.DifficultyBreakdown(snap.Answers),
		InProgress:  leaderboard.InProgress(snap.Progress),
		Learners:    len(best),
		GeneratedAt: now.UTC(),
	}
}

// Progress returns the live progress rows.
func (a *AdminService) Progress(ctx context.Context) ([]domain.ProgressSnapshot, error) {
	return a.store.LoadProgress(ctx)
}

// Export writes a record set in its CSV schema. Stores that keep CSV on disk stream it unchanged.
func (a *AdminService) Export(ctx context.Context, set records.Set, w io.Writer) error {
	if raw, ok := a.store.(RawExporter); ok {
		return raw.ExportRaw(ctx, set, w)
	}
	snap, err := a.loadSet(ctx, set)
	if err != nil {
		return err
	}
	return records.WriteCSV(w, set, snap.Rows(set))
}

// ClearAll erases every stored record. It refuses to run unless confirmed.
func (a *AdminService) ClearAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return domain.ErrClearNotConfirmed
	}
	if err := a.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	return nil
}

func (a *AdminService) load(ctx context.Context) (records.Snapshot, error) {
	var snap records.Snapshot
	var err error
	if snap.Attempts, err = a.store.LoadAttempts(ctx); err != nil {
		return snap, fmt.Errorf("load attempts: %w", err)
	}
	if snap.Answers, err = a.store.LoadAnswerLogs(ctx); err != nil {
		return snap, fmt.Errorf("load answer logs: %w", err)
	}
	if snap.Progress, err = a.store.LoadProgress(ctx); err != nil {
		return snap, fmt.Errorf("load progress: %w", err)
	}
	return snap, nil
}

func (a *AdminService) loadSet(ctx context.Context, set records.Set) (records.Snapshot, error) {
	var snap records.Snapshot
	var err error
	switch set {
	case records.SetAnswers:
		snap.Answers, err = a.store.LoadAnswerLogs(ctx)
	case records.SetProgress:
		snap.Progress, err = a.store.LoadProgress(ctx)
	default:
		snap.Attempts, err = a.store.LoadAttempts(ctx)
	}
	if err != nil {
		return snap, fmt.Errorf("load %s: %w", set, err)
	}
	return snap, nil
}
