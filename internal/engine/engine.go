// Package engine drives the trading loop end to end: connect, authorize,
// place contracts on an escalating stake, then watch every open position
// until the venue settles it, and tear the session down no matter how
// any of that went.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sniper-art710/Deriv-botss/internal/config"
	"github.com/sniper-art710/Deriv-botss/internal/deriv"
	"github.com/sniper-art710/Deriv-botss/internal/id"
	"github.com/sniper-art710/Deriv-botss/internal/journal"
	"github.com/sniper-art710/Deriv-botss/internal/metrics"
	"github.com/sniper-art710/Deriv-botss/internal/trade"
)

// Session is what the engine needs from a venue connection. The engine
// owns it: one per Run, closed on every exit path.
type Session interface {
	trade.Channel
	Authorize(ctx context.Context, token string) error
	Close() error
}

// Dialer opens the transport; tests swap in fakes.
type Dialer func(ctx context.Context) (Session, error)

// NewDialer returns the production dialer for the configured venue.
func NewDialer(cfg *config.Config, log zerolog.Logger) Dialer {
	return func(ctx context.Context) (Session, error) {
		return deriv.Dial(ctx, cfg.Venue.Endpoint(), log)
	}
}

// Engine runs one trading loop per Run call.
type Engine struct {
	cfg   *config.Config
	dial  Dialer
	jrnl  journal.Journal
	log   zerolog.Logger
	runID string
}

// New assembles an engine. A nil journal disables settlement recording.
func New(cfg *config.Config, dial Dialer, jrnl journal.Journal, log zerolog.Logger) *Engine {
	if jrnl == nil {
		jrnl = journal.Nop{}
	}
	return &Engine{cfg: cfg, dial: dial, jrnl: jrnl, log: log, runID: id.New()}
}

// RunID identifies this engine's loop in logs and journal rows.
func (e *Engine) RunID() string { return e.runID }

// Run executes the loop. It returns an error only when the run could not
// start (connect or authorize failed); once trading begins, failures are
// resolved to logs, metrics and journal rows, and the session is closed
// before Run returns.
func (e *Engine) Run(ctx context.Context) error {
	log := e.log.With().Str("run_id", e.runID).Logger()

	sess, err := e.dial(ctx)
	if err != nil {
		log.Error().Err(err).Msg("venue unreachable, giving up")
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("session close failed")
		}
	}()

	if err := sess.Authorize(ctx, e.cfg.Venue.APIToken); err != nil {
		log.Error().Err(err).Msg("authorization rejected")
		return fmt.Errorf("authorize: %w", err)
	}

	params := trade.Params{
		Symbol:        e.cfg.Trading.Symbol,
		ContractType:  e.cfg.Trading.ContractType,
		DurationTicks: e.cfg.Trading.DurationTicks,
		Currency:      e.cfg.Trading.Currency,
		LastDigit:     e.cfg.Trading.LastDigit,
	}
	placer := trade.NewPlacer(sess, params, log)
	monitor := trade.NewMonitor(sess, e.cfg.Trading.PollInterval(), log)
	schedule := trade.NewSchedule(e.cfg.Trading.BaseStake, e.cfg.Trading.IncreaseRate, e.cfg.Trading.TradeInterval)

	positions := e.placeAll(ctx, placer, schedule, log)
	e.monitorAll(ctx, monitor, positions, log)

	log.Info().Int("placed", len(positions)).Float64("final_stake", schedule.Stake()).Msg("run complete")
	return nil
}

// placeAll keeps placing until num_trades placements were accepted, the
// ctx is canceled, or the transport dies. Venue rejections are skipped
// without advancing the counter; the inter-trade delay applies to every
// attempt.
func (e *Engine) placeAll(ctx context.Context, placer *trade.Placer, schedule *trade.Schedule, log zerolog.Logger) []trade.Position {
	positions := make([]trade.Position, 0, e.cfg.Trading.NumTrades)

	for schedule.Count() < e.cfg.Trading.NumTrades {
		if ctx.Err() != nil {
			log.Warn().Int("placed", len(positions)).Msg("placement loop interrupted")
			break
		}

		stake := schedule.Stake()
		metrics.CurrentStake.Set(stake)

		pos, err := placer.Place(ctx, stake)
		switch {
		case err == nil:
			positions = append(positions, pos)
			if schedule.Record() {
				log.Info().Float64("stake", schedule.Stake()).Int("trades", schedule.Count()).Msg("stake increased")
			}
		case isRejection(err):
			// Already logged by the placer; the counter stays put.
		default:
			log.Error().Err(err).Msg("placement failed, abandoning loop")
			return positions
		}

		select {
		case <-time.After(e.cfg.Trading.TradeDelay()):
		case <-ctx.Done():
		}
	}
	return positions
}

// monitorAll fans out one watcher per open position and joins them all
// before returning. The watchers share one session; the session's Call
// serializes the actual sends and receives.
func (e *Engine) monitorAll(ctx context.Context, monitor *trade.Monitor, positions []trade.Position, log zerolog.Logger) {
	if len(positions) == 0 {
		return
	}
	log.Info().Int("open", len(positions)).Msg("monitoring open contracts")

	var wg sync.WaitGroup
	for _, pos := range positions {
		wg.Add(1)
		go func(pos trade.Position) {
			defer wg.Done()
			e.watch(ctx, monitor, pos, log)
		}(pos)
	}
	wg.Wait()
}

func (e *Engine) watch(ctx context.Context, monitor *trade.Monitor, pos trade.Position, log zerolog.Logger) {
	if timeout := e.cfg.Trading.SettleTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	st, err := monitor.AwaitSettlement(ctx, pos)
	if err != nil {
		// Non-fatal: the other watchers keep going.
		log.Error().Err(err).Int64("contract_id", pos.ContractID).Msg("settlement watch aborted")
		return
	}

	result := "lost"
	if st.Won {
		result = "won"
	}
	rec := journal.Record{
		RunID:      e.runID,
		ContractID: st.ContractID,
		Symbol:     e.cfg.Trading.Symbol,
		Stake:      pos.Stake,
		Profit:     st.Profit,
		Result:     result,
		PlacedAt:   pos.PlacedAt,
		SettledAt:  st.SettledAt,
	}
	if err := e.jrnl.RecordSettlement(rec); err != nil {
		log.Warn().Err(err).Int64("contract_id", pos.ContractID).Msg("journal write failed")
	}
}

func isRejection(err error) bool {
	var apiErr *deriv.APIError
	return errors.As(err, &apiErr)
}
