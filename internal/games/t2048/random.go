package t2048

import (
	"math/rand"
	"time"
)

// Source supplies uniformly distributed floats in [0, 1).
type Source interface {
	NextFloat() float64
}

type randSource struct {
	rng *rand.Rand
}

// NewRandSource returns a math/rand backed Source. A zero seed uses the current time.
func NewRandSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *randSource) NextFloat() float64 {
	return s.rng.Float64()
}

// pick maps a float in [0, 1) to an index in [0, n).
func pick(src Source, n int) int {
	i := int(src.NextFloat() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
