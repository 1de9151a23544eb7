// Package journal persists settled contracts so a run's outcomes can be
// reviewed after the process exits. It records results only; the bot
// never reads it back to resume state.
package journal

import "time"

// Record captures one settled contract.
type Record struct {
	ID         string // ULID, assigned on insert when empty
	RunID      string
	ContractID int64
	Symbol     string
	Stake      float64
	Profit     float64
	Result     string // "won" | "lost"
	PlacedAt   time.Time
	SettledAt  time.Time
}

// Journal is the sink the engine writes settlements to.
type Journal interface {
	RecordSettlement(rec Record) error
	Close() error
}

// Nop discards every record; used when no journal path is configured.
type Nop struct{}

func (Nop) RecordSettlement(Record) error { return nil }
func (Nop) Close() error                  { return nil }
