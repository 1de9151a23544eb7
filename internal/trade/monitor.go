package trade

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sniper-art710/Deriv-botss/internal/deriv"
	"github.com/sniper-art710/Deriv-botss/internal/metrics"
)

const defaultPollInterval = 500 * time.Millisecond

// Monitor polls open contracts until the venue reports them sold.
type Monitor struct {
	ch           Channel
	pollInterval time.Duration
	log          zerolog.Logger
}

// NewMonitor builds a monitor over an authorized channel. Non-positive
// intervals fall back to the default 500ms cadence.
func NewMonitor(ch Channel, pollInterval time.Duration, log zerolog.Logger) *Monitor {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Monitor{ch: ch, pollInterval: pollInterval, log: log}
}

// AwaitSettlement polls the contract's status until it settles, sleeping
// the poll interval between queries. An error envelope or a canceled ctx
// ends the watch for this contract only. The caller bounds the wait by
// handing in a ctx with a deadline; without one the poll runs until the
// venue answers.
func (m *Monitor) AwaitSettlement(ctx context.Context, pos Position) (Settlement, error) {
	for {
		req := deriv.OpenContractRequest{ProposalOpenContract: 1, ContractID: pos.ContractID}
		var resp deriv.OpenContractResponse
		if err := m.ch.Call(ctx, req, &resp); err != nil {
			metrics.SettlementsTotal.WithLabelValues("error").Inc()
			return Settlement{}, err
		}

		if oc := resp.ProposalOpenContract; oc.Sold() {
			st := Settlement{
				ContractID: pos.ContractID,
				Profit:     oc.Profit,
				Won:        oc.Profit > 0,
				SettledAt:  time.Now(),
			}
			result := "lost"
			if st.Won {
				result = "won"
			}
			metrics.SettlementsTotal.WithLabelValues(result).Inc()
			metrics.ProfitTotal.Add(st.Profit)
			m.log.Info().Int64("contract_id", st.ContractID).Float64("profit", st.Profit).
				Str("result", result).Msg("contract settled")
			return st, nil
		}

		select {
		case <-time.After(m.pollInterval):
		case <-ctx.Done():
			metrics.SettlementsTotal.WithLabelValues("error").Inc()
			return Settlement{}, ctx.Err()
		}
	}
}
