package model

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// NumberGenerator produces a human-readable reference number from a
// prefix and a random-suffix width. Models accept a generator at
// construction so a stronger scheme can be swapped in without touching
// callers.
type NumberGenerator func(prefix string, randomDigits int) string

// TimestampNumber is the default generator: the low six decimal digits
// of the creation timestamp plus a zero-padded random suffix, e.g.
// "ORD-483920-051". Collisions are theoretically possible and accepted
// at the expected volume; uniqueness is not re-checked.
func TimestampNumber(prefix string, randomDigits int) string {
	suffix := time.Now().UnixMilli() % 1000000
	random := rand.Int63n(int64(math.Pow10(randomDigits)))
	return fmt.Sprintf("%s-%06d-%0*d", prefix, suffix, randomDigits, random)
}
