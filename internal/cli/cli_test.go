package cli

import (
	"path/filepath"
	"testing"

	"github.com/sniper-art710/Deriv-botss/internal/config"
)

func TestConfigInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	rootCmd.SetArgs([]string{"--config", path, "config", "init"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config init returned error: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Trading.Symbol != "R_50" || cfg.Trading.ContractType != "DIGITDIFF" {
		t.Fatalf("unexpected defaults: %+v", cfg.Trading)
	}

	// A second init must refuse to clobber the file.
	rootCmd.SetArgs([]string{"--config", path, "config", "init"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected refusal to overwrite existing config")
	}
}
