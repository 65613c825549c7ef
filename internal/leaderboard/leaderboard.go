// Package leaderboard reduces stored attempts into rankings and answer logs into difficulty stats.
package leaderboard

import (
	"sort"
	"strings"

	"logic-quiz-service/internal/domain"
	"logic-quiz-service/internal/scoring"
)

// Compare orders two attempts by (percent_official, final_points, max_streak, timestamp).
// It returns a positive number when a ranks above b, negative when below, and 0 on a full tie.
func Compare(a, b domain.StoredAttempt) int {
	switch {
	case a.PercentOfficial != b.PercentOfficial:
		if a.PercentOfficial > b.PercentOfficial {
			return 1
		}
		return -1
	case a.FinalPoints != b.FinalPoints:
		return a.FinalPoints - b.FinalPoints
	case a.MaxStreak != b.MaxStreak:
		return a.MaxStreak - b.MaxStreak
	case !a.Timestamp.Equal(b.Timestamp):
		if a.Timestamp.After(b.Timestamp) {
			return 1
		}
		return -1
	}
	return 0
}

// BestPerLearner keeps the highest ranked attempt of each learner. Names are trimmed; rows without
// a name are ignored. On a full tie the first attempt seen is kept.
func BestPerLearner(attempts []domain.StoredAttempt) map[string]domain.StoredAttempt {
	best := make(map[string]domain.StoredAttempt)
	for _, a := range attempts {
		name := strings.TrimSpace(a.StudentName)
		if name == "" {
			continue
		}
		if cur, ok := best[name]; !ok || Compare(a, cur) > 0 {
			best[name] = a
		}
	}
	return best
}

// Values flattens BestPerLearner output in name order.
func Values(best map[string]domain.StoredAttempt) []domain.StoredAttempt {
	names := make([]string, 0, len(best))
	for name := range best {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]domain.StoredAttempt, 0, len(names))
	for _, name := range names {
		out = append(out, best[name])
	}
	return out
}

// RankDescending sorts best-first for a top N view.
func RankDescending(attempts []domain.StoredAttempt) []domain.StoredAttempt {
	out := append([]domain.StoredAttempt(nil), attempts...)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j]) > 0
	})
	return out
}

// RankAscending uses the same comparator worst-first for a bottom N view.
func RankAscending(attempts []domain.StoredAttempt) []domain.StoredAttempt {
	out := append([]domain.StoredAttempt(nil), attempts...)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j]) < 0
	})
	return out
}

var medals = map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}

// Top returns the first n descending entries with positions and medals.
func Top(best []domain.StoredAttempt, n int) []domain.RankedAttempt {
	ranked := limit(RankDescending(best), n)
	out := make([]domain.RankedAttempt, 0, len(ranked))
	for i, a := range ranked {
		medal, ok := medals[i+1]
		if !ok {
			medal = "🏅"
		}
		out = append(out, domain.RankedAttempt{Position: i + 1, Medal: medal, Attempt: a})
	}
	return out
}

// Bottom returns the n worst entries, position 1 being the worst.
func Bottom(best []domain.StoredAttempt, n int) []domain.RankedAttempt {
	ranked := limit(RankAscending(best), n)
	out := make([]domain.RankedAttempt, 0, len(ranked))
	for i, a := range ranked {
		out = append(out, domain.RankedAttempt{Position: i + 1, Attempt: a})
	}
	return out
}

// Recent returns the n most recent raw attempts.
func Recent(attempts []domain.StoredAttempt, n int) []domain.StoredAttempt {
	out := append([]domain.StoredAttempt(nil), attempts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return limit(out, n)
}

// DifficultyBreakdown aggregates answer logs per level. The fixed levels always appear first;
// unexpected levels follow in name order. A blank level counts as Medium.
func DifficultyBreakdown(logs []domain.AnswerLogEntry) []domain.LevelStat {
	stats := make(map[domain.Level]*domain.LevelStat, len(domain.Levels))
	for _, level := range domain.Levels {
		stats[level] = &domain.LevelStat{Level: level}
	}
	var extra []domain.Level
	for _, e := range logs {
		level := e.Level
		if level == "" {
			level = domain.LevelMedium
		}
		st, ok := stats[level]
		if !ok {
			st = &domain.LevelStat{Level: level}
			stats[level] = st
			extra = append(extra, level)
		}
		st.Total++
		if e.Correct {
			st.Correct++
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	out := make([]domain.LevelStat, 0, len(stats))
	for _, level := range append(append([]domain.Level(nil), domain.Levels...), extra...) {
		st := stats[level]
		st.Rate = scoring.Rate(st.Correct, st.Total)
		out = append(out, *st)
	}
	return out
}

// InProgress filters progress rows that have not finished, most recent first.
func InProgress(progress []domain.ProgressSnapshot) []domain.ProgressSnapshot {
	out := make([]domain.ProgressSnapshot, 0, len(progress))
	for _, p := range progress {
		if p.Status == domain.StatusInProgress {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func limit[T any](items []T, n int) []T {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[:n]
}
