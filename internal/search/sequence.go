package search

import (
	"errors"
	"sync/atomic"
)

// ErrStaleResult is returned for a search superseded by a newer one.
var ErrStaleResult = errors.New("search result superseded")

// Token identifies one issued search.
type Token uint64

// Sequencer hands out increasing tokens so that only the most recently
// issued search may publish its results.
type Sequencer struct {
	last atomic.Uint64
}

func (s *Sequencer) Next() Token {
	return Token(s.last.Add(1))
}

func (s *Sequencer) IsLatest(t Token) bool {
	return Token(s.last.Load()) == t
}
