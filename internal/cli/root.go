// Package cli wires the cobra command tree for the bot binary.
package cli

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "derivbot",
	Short: "Automated digit-contract trading loop for the Deriv websocket API",
	Long: `Derivbot connects to the Deriv websocket API, authorizes with your
API token, places a configured number of short-duration digit contracts
with a stake that grows every few trades, then watches every open
contract until it settles.

Configuration lives in a YAML file (see "derivbot config init"); the API
token can be supplied via the DERIV_API_TOKEN environment variable or a
.env file instead of the config file.`,
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "path to the YAML config file")
}
