package leaderboard

import (
	"testing"
	"time"

	"logic-quiz-service/internal/domain"
)

var t1 = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func attempt(name string, percent float64, points, streak int, ts time.Time) domain.StoredAttempt {
	return domain.StoredAttempt{Timestamp: ts, StudentName: name, PercentOfficial: percent, FinalPoints: points, MaxStreak: streak, Total: 30}
}

func TestCompareTieBreaks(t *testing.T) {
	a := attempt("A", 90, 25, 3, t1)
	b := attempt("B", 90, 25, 5, t1)
	c := attempt("C", 90, 25, 3, t1.Add(time.Minute))

	if Compare(b, a) <= 0 {
		t.Fatalf("expected max_streak tiebreak to rank B above A")
	}
	if Compare(c, a) <= 0 {
		t.Fatalf("expected timestamp tiebreak to rank C above A")
	}
	if Compare(a, a) != 0 {
		t.Fatalf("expected full tie to compare equal")
	}
	if Compare(attempt("D", 91, 0, 0, t1), b) <= 0 {
		t.Fatalf("expected percent to dominate")
	}
	if Compare(attempt("E", 90, 26, 0, t1), b) <= 0 {
		t.Fatalf("expected final points to break percent ties")
	}
}

func TestBestPerLearner(t *testing.T) {
	attempts := []domain.StoredAttempt{
		attempt("Ana", 50, 10, 2, t1),
		attempt(" Ana ", 80, 20, 4, t1.Add(time.Hour)),
		attempt("Ana", 80, 20, 4, t1.Add(-time.Hour)),
		attempt("Bruno", 70, 15, 3, t1),
		attempt("  ", 100, 99, 30, t1),
	}
	best := BestPerLearner(attempts)
	if len(best) != 2 {
		t.Fatalf("expected 2 learners, got %d", len(best))
	}
	if got := best["Ana"]; got.PercentOfficial != 80 || !got.Timestamp.Equal(t1.Add(time.Hour)) {
		t.Fatalf("expected Ana's most recent 80%% attempt, got %+v", got)
	}
}

func TestRankAscendingIsReverseOfDescending(t *testing.T) {
	best := []domain.StoredAttempt{
		attempt("A", 90, 25, 3, t1),
		attempt("B", 90, 25, 5, t1),
		attempt("C", 40, 12, 1, t1),
		attempt("D", 100, 40, 10, t1),
	}
	desc := RankDescending(best)
	asc := RankAscending(best)
	order := []string{"D", "B", "A", "C"}
	for i, name := range order {
		if desc[i].StudentName != name {
			t.Fatalf("desc[%d] = %s, want %s", i, desc[i].StudentName, name)
		}
		if asc[len(asc)-1-i].StudentName != name {
			t.Fatalf("asc reversed[%d] = %s, want %s", i, asc[len(asc)-1-i].StudentName, name)
		}
	}

	top := Top(best, 3)
	if len(top) != 3 || top[0].Medal != "🥇" || top[2].Medal != "🥉" {
		t.Fatalf("unexpected top: %+v", top)
	}
	if top4 := Top(best, 10); top4[3].Medal != "🏅" {
		t.Fatalf("expected generic medal at position 4, got %q", top4[3].Medal)
	}
	bottom := Bottom(best, 1)
	if len(bottom) != 1 || bottom[0].Attempt.StudentName != "C" {
		t.Fatalf("expected C as worst, got %+v", bottom)
	}
}

func TestRecent(t *testing.T) {
	attempts := []domain.StoredAttempt{
		attempt("A", 1, 1, 1, t1),
		attempt("B", 1, 1, 1, t1.Add(2*time.Hour)),
		attempt("C", 1, 1, 1, t1.Add(time.Hour)),
	}
	recent := Recent(attempts, 2)
	if len(recent) != 2 || recent[0].StudentName != "B" || recent[1].StudentName != "C" {
		t.Fatalf("unexpected recent order: %+v", recent)
	}
}

func TestDifficultyBreakdown(t *testing.T) {
	logs := []domain.AnswerLogEntry{
		{Level: domain.LevelEasy, Correct: true},
		{Level: domain.LevelEasy, Correct: false},
		{Level: domain.LevelHard, Correct: true},
		{Level: "Legendary", Correct: false},
		{Level: "", Correct: true},
	}
	stats := DifficultyBreakdown(logs)
	if len(stats) != 4 {
		t.Fatalf("expected 3 fixed levels plus 1 extra, got %d", len(stats))
	}
	if stats[0].Level != domain.LevelEasy || stats[0].Total != 2 || stats[0].Rate != 50 {
		t.Fatalf("unexpected easy stat %+v", stats[0])
	}
	if stats[1].Level != domain.LevelMedium || stats[1].Total != 1 || stats[1].Rate != 100 {
		t.Fatalf("unexpected medium stat %+v", stats[1])
	}
	if stats[3].Level != "Legendary" || stats[3].Rate != 0 {
		t.Fatalf("unexpected extra stat %+v", stats[3])
	}

	empty := DifficultyBreakdown(nil)
	for _, st := range empty {
		if st.Total != 0 || st.Rate != 0 {
			t.Fatalf("expected zeroed stats, got %+v", st)
		}
	}
}

func TestInProgress(t *testing.T) {
	progress := []domain.ProgressSnapshot{
		{StudentName: "A", Status: domain.StatusFinished, Timestamp: t1},
		{StudentName: "B", Status: domain.StatusInProgress, Timestamp: t1},
		{StudentName: "C", Status: domain.StatusInProgress, Timestamp: t1.Add(time.Minute)},
	}
	live := InProgress(progress)
	if len(live) != 2 || live[0].StudentName != "C" {
		t.Fatalf("unexpected in-progress rows: %+v", live)
	}
}
