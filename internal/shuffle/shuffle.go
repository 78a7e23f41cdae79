// Package shuffle implements the unbiased Fisher-Yates shuffle used for
// question order, flashcard order and answer options.
package shuffle

import (
	"math/rand"
	"time"
)

// Source picks a uniform integer in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// New returns a time-seeded source
func New() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewSeeded returns a deterministic source for reproducible draws
func NewSeeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Shuffle returns a uniformly random permutation of items.
// The input slice is left unmodified.
func Shuffle[T any](src Source, items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}

// Draw shuffles items and keeps at most n of them. n <= 0 keeps all.
func Draw[T any](src Source, items []T, n int) []T {
	shuffled := Shuffle(src, items)

	if n <= 0 || n > len(shuffled) {
		n = len(shuffled)
	}

	return shuffled[:n]
}
