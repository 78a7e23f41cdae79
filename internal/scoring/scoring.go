// Package scoring holds the pure scoring rules: points per answer,
// star ratings and answer comparison.
package scoring

import "strings"

const (
	// BasePoints is awarded for every correct answer
	BasePoints = 100

	// StreakBonus is added per consecutive correct answer before this one
	StreakBonus = 10

	// MaxStars is the best possible rating for an attempt
	MaxStars = 3
)

// ScoreDelta returns the points earned by an answer given the streak
// held before it was submitted.
func ScoreDelta(streakBefore int, correct bool) int {
	if !correct {
		return 0
	}
	return BasePoints + streakBefore*StreakBonus
}

// StarRating converts an attempt into 1-3 stars. Any completed attempt
// earns at least one star. Callers must not pass total == 0; it yields 0.
func StarRating(correct, total int) int {
	if total <= 0 {
		return 0
	}

	percentage := float64(correct) / float64(total) * 100
	switch {
	case percentage >= 90:
		return 3
	case percentage >= 70:
		return 2
	default:
		return 1
	}
}

// Normalize trims surrounding whitespace and lowercases an answer.
// Inner spacing, punctuation and diacritics are kept as typed.
func Normalize(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// IsCorrect compares a submitted answer with the expected one
func IsCorrect(submitted, expected string) bool {
	return Normalize(submitted) == Normalize(expected)
}
