// Package ids issues the integer identifiers used for todos and expense items.
package ids

import (
	"sync"
	"time"
)

// Generator hands out identifiers. Every call returns a value strictly
// greater than the previous one from the same generator.
type Generator interface {
	Next() int64
}

// Sequence is a plain counter starting after an explicit seed.
type Sequence struct {
	mu   sync.Mutex
	last int64
}

// NewSequence returns a counter whose first value is seed+1.
func NewSequence(seed int64) *Sequence {
	return &Sequence{last: seed}
}

func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return s.last
}

// Clock derives identifiers from wall-clock milliseconds but never repeats
// or goes backwards: two calls inside one millisecond get consecutive values.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewClock returns a clock-seeded generator. A nil now uses time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}
