// Package trade implements contract placement, stake scheduling and
// settlement monitoring on top of an authorized venue session.
package trade

import (
	"context"
	"time"

	"github.com/sniper-art710/Deriv-botss/internal/deriv"
)

// Params are the immutable contract parameters every buy request is
// built from. Set once at startup, never mutated.
type Params struct {
	Symbol        string
	ContractType  string
	DurationTicks int
	Currency      string
	LastDigit     int
}

// Position is one outstanding contract produced by exactly one accepted
// placement.
type Position struct {
	ContractID int64
	Stake      float64
	TraceID    string
	PlacedAt   time.Time
}

// Settlement is a contract's final outcome. Won means profit was
// strictly positive; a zero profit counts as lost.
type Settlement struct {
	ContractID int64
	Profit     float64
	Won        bool
	SettledAt  time.Time
}

// Channel is the serialized request/response surface of a venue
// session. Implementations must pair each send with its receive.
type Channel interface {
	Call(ctx context.Context, req any, resp deriv.Response) error
}
