package trade

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sniper-art710/Deriv-botss/internal/deriv"
	"github.com/sniper-art710/Deriv-botss/internal/metrics"
)

// Placer submits buy requests. One request per call, no retries; the
// orchestrator decides what a rejection means.
type Placer struct {
	ch     Channel
	params Params
	log    zerolog.Logger
}

// NewPlacer builds a placer over an authorized channel.
func NewPlacer(ch Channel, params Params, log zerolog.Logger) *Placer {
	return &Placer{ch: ch, params: params, log: log}
}

// Place buys one contract at the given stake. A venue rejection comes
// back as *deriv.APIError; anything else is a transport failure. Each
// request carries a fresh trace id in the passthrough so the venue's
// echo stays attributable.
func (p *Placer) Place(ctx context.Context, stake float64) (Position, error) {
	traceID := uuid.New().String()
	req := deriv.BuyRequest{
		Buy:   1,
		Price: stake,
		Parameters: deriv.BuyParameters{
			Amount:       stake,
			Basis:        "stake",
			ContractType: p.params.ContractType,
			Currency:     p.params.Currency,
			Duration:     p.params.DurationTicks,
			DurationUnit: "t",
			Symbol:       p.params.Symbol,
			Barrier:      strconv.Itoa(p.params.LastDigit),
		},
		Passthrough: map[string]any{"trade_id": traceID},
	}

	var resp deriv.BuyResponse
	if err := p.ch.Call(ctx, req, &resp); err != nil {
		var apiErr *deriv.APIError
		if errors.As(err, &apiErr) {
			metrics.PlacementsTotal.WithLabelValues("rejected").Inc()
			p.log.Warn().Str("code", apiErr.Code).Str("reason", apiErr.Message).
				Float64("stake", stake).Msg("buy rejected")
		}
		return Position{}, err
	}
	if resp.Buy == nil || resp.Buy.ContractID == 0 {
		return Position{}, fmt.Errorf("buy: response carries no contract id")
	}

	pos := Position{
		ContractID: resp.Buy.ContractID,
		Stake:      stake,
		TraceID:    traceID,
		PlacedAt:   time.Now(),
	}
	metrics.PlacementsTotal.WithLabelValues("accepted").Inc()
	p.log.Info().Int64("contract_id", pos.ContractID).Float64("stake", stake).
		Str("trade_id", traceID).Msg("contract placed")
	return pos, nil
}
