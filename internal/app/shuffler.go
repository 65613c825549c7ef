package app

import (
	"math/rand"
	"sync"
	"time"
)

// Shuffler produces question orders and option permutations. Safe for concurrent use.
type Shuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewShuffler() *Shuffler {
	return NewSeededShuffler(time.Now().UnixNano())
}

// NewSeededShuffler is deterministic for a given seed.
func NewSeededShuffler(seed int64) *Shuffler {
	return &Shuffler{rnd: rand.New(rand.NewSource(seed))}
}

// Perm returns a random permutation of [0, n).
func (s *Shuffler) Perm(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Perm(n)
}

// ShufflePreservingAnswer returns a random permutation of options that contains answer exactly once.
// When the catalog item is broken and answer is missing, the last slot is overwritten with it and
// the list is shuffled again.
func (s *Shuffler) ShufflePreservingAnswer(options []string, answer string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := append([]string(nil), options...)
	s.shuffleLocked(opts)
	if countOf(opts, answer) == 0 {
		if len(opts) == 0 {
			return []string{answer}
		}
		opts[len(opts)-1] = answer
		s.shuffleLocked(opts)
	}
	return dropExtraCopies(opts, answer)
}

func (s *Shuffler) shuffleLocked(opts []string) {
	s.rnd.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})
}

func countOf(opts []string, value string) int {
	n := 0
	for _, o := range opts {
		if o == value {
			n++
		}
	}
	return n
}

// dropExtraCopies keeps the first occurrence of answer only.
func dropExtraCopies(opts []string, answer string) []string {
	if countOf(opts, answer) <= 1 {
		return opts
	}
	out := opts[:0]
	seen := false
	for _, o := range opts {
		if o == answer {
			if seen {
				continue
			}
			seen = true
		}
		out = append(out, o)
	}
	return out
}
