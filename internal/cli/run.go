package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sniper-art710/Deriv-botss/internal/config"
	"github.com/sniper-art710/Deriv-botss/internal/engine"
	"github.com/sniper-art710/Deriv-botss/internal/journal"
	"github.com/sniper-art710/Deriv-botss/internal/metrics"
	"github.com/sniper-art710/Deriv-botss/internal/util"
)

var (
	flagTrades int
	flagStake  float64
	flagSymbol string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect, authorize, and run the trading loop once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("trades") {
			cfg.Trading.NumTrades = flagTrades
		}
		if cmd.Flags().Changed("stake") {
			cfg.Trading.BaseStake = flagStake
		}
		if cmd.Flags().Changed("symbol") {
			cfg.Trading.Symbol = flagSymbol
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log := util.NewLogger(cfg.App.LogLevel, cfg.App.PrettyLog)
		if cfg.App.MetricsAddr != "" {
			_ = metrics.Serve(cfg.App.MetricsAddr)
			log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		jrnl := journal.Journal(journal.Nop{})
		if cfg.Journal.Path != "" {
			sq, err := journal.NewSQLite(cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer sq.Close()
			jrnl = sq
		}

		eng := engine.New(cfg, engine.NewDialer(cfg, util.Component(log, "deriv")), jrnl, log)
		return eng.Run(ctx)
	},
}

func init() {
	runCmd.Flags().IntVar(&flagTrades, "trades", 0, "override trading.num_trades")
	runCmd.Flags().Float64Var(&flagStake, "stake", 0, "override trading.base_stake")
	runCmd.Flags().StringVar(&flagSymbol, "symbol", "", "override trading.symbol")
	rootCmd.AddCommand(runCmd)
}
