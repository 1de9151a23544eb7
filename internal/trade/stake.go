package trade

import "math"

// Schedule tracks the escalating stake: after every interval-th accepted
// placement the stake grows by rate, rounded to two decimals. The stake
// never decreases and rejected placements never advance the counter.
type Schedule struct {
	stake    float64
	rate     float64
	interval int
	count    int
}

// NewSchedule starts a schedule at the base stake.
func NewSchedule(base, rate float64, interval int) *Schedule {
	return &Schedule{stake: base, rate: rate, interval: interval}
}

// Stake returns the amount the next placement should commit.
func (s *Schedule) Stake() float64 { return s.stake }

// Count returns how many accepted placements have been recorded.
func (s *Schedule) Count() int { return s.count }

// Record notes one accepted placement. When the counter reaches a
// multiple of the interval the stake grows; Record reports whether it
// changed.
func (s *Schedule) Record() bool {
	s.count++
	if s.interval <= 0 || s.count%s.interval != 0 {
		return false
	}
	s.stake = round2(s.stake * (1 + s.rate))
	return true
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
