// Package scoring holds the pure score arithmetic used by quiz sessions.
package scoring

import "math"

// StreakBonus returns the extra points earned by the answer that brought the streak to streak.
// The first answer of a streak earns nothing extra; each further consecutive answer adds one.
func StreakBonus(streak int) int {
	if streak < 1 {
		return 0
	}
	return streak - 1
}

// PercentOfficial is the bonus-free accuracy percentage. An empty quiz scores 0.
func PercentOfficial(baseCorrect, total int) float64 {
	if total <= 0 {
		return 0.0
	}
	return 100 * float64(baseCorrect) / float64(total)
}

// Round2 rounds to the two decimals used by stored records.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rate is PercentOfficial for aggregated counters.
func Rate(correct, total int) float64 {
	return PercentOfficial(correct, total)
}
