package main

import (
	"os"

	"github.com/sniper-art710/Deriv-botss/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
