package pathfinding

import "sync/atomic"

// Sequencer tags runs with increasing numbers so a slow response can be
// recognised as stale once a newer run was issued.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a new sequence number, superseding every earlier one.
func (s *Sequencer) Next() uint64 { return s.latest.Add(1) }

// Latest returns the most recently issued number (0 before the first run).
func (s *Sequencer) Latest() uint64 { return s.latest.Load() }

// IsLatest reports whether seq is still the newest run.
func (s *Sequencer) IsLatest(seq uint64) bool { return seq != 0 && s.latest.Load() == seq }

// Invalidate makes every issued number stale without starting a run.
func (s *Sequencer) Invalidate() { s.latest.Add(1) }
