// Package dictionary provides the external lexical lookups the submission
// pipeline verifies unknown words against: a primary API that reports both a
// definition and a corpus frequency, and a secondary wiki source used as a
// definition-only fallback.
package dictionary

import (
	"context"
	"errors"
)

// ErrNotFound is a structured not-found, distinct from transport failures:
// the source answered and does not know the word.
var ErrNotFound = errors.New("word not found in dictionary")

// Entry is a successful lookup. Frequency is on a Zipf-like scale where lower
// means rarer; 0 means the source has no frequency signal.
type Entry struct {
	Definition string
	Frequency  float64
}

type Lookup interface {
	Lookup(ctx context.Context, word string) (Entry, error)
}
