package scoring

import "testing"

func TestStreakBonus(t *testing.T) {
	cases := map[int]int{0: 0, 1: 0, 2: 1, 3: 2, 5: 4, -3: 0}
	for streak, want := range cases {
		if got := StreakBonus(streak); got != want {
			t.Fatalf("StreakBonus(%d) = %d, want %d", streak, got, want)
		}
	}
}

func TestPercentOfficial(t *testing.T) {
	if got := PercentOfficial(0, 0); got != 0.0 {
		t.Fatalf("expected 0 for empty quiz, got %v", got)
	}
	if got := PercentOfficial(15, 30); got != 50.0 {
		t.Fatalf("expected 50, got %v", got)
	}
	if got := PercentOfficial(2, 2); got != 100.0 {
		t.Fatalf("expected 100, got %v", got)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(PercentOfficial(1, 3)); got != 33.33 {
		t.Fatalf("expected 33.33, got %v", got)
	}
	if got := Round2(PercentOfficial(2, 3)); got != 66.67 {
		t.Fatalf("expected 66.67, got %v", got)
	}
}
