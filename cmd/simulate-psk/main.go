// Command simulate-psk runs a Monte-Carlo BER/SER sweep of M-PSK
// transmission over a flat fading (or AWGN) channel.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/caihao/gophysim/internal/progress"
	"github.com/caihao/gophysim/sim"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal("simulation failed", "err", err)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("simulate-psk", pflag.ContinueOnError)
	configPath := fs.String("config", "simulate-psk.yaml", "simulation parameter file (created with defaults when missing)")
	resultsPath := fs.String("results", "", "optional path for JSON results")
	order := fs.Int("order", 0, "override the constellation order M")
	seed := fs.Int64("seed", 0, "override the random seed")
	verbose := fs.Bool("verbose", false, "log per-repetition progress")
	if err := fs.Parse(args); err != nil {
		return err
	}

	params, err := loadOrCreateParams(*configPath)
	if err != nil {
		return err
	}
	params.Scheme = "psk"
	if *order != 0 {
		params.Order = *order
	}
	if *seed != 0 {
		params.Seed = *seed
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	runner := sim.Runner{Params: params, Logger: logger}
	if *verbose {
		runner.Reporter = progress.NewLogReporter(logger)
	}

	results, err := runner.Run()
	if err != nil {
		return err
	}
	if err := results.WriteTable(os.Stdout); err != nil {
		return err
	}
	if *resultsPath != "" {
		f, err := os.Create(*resultsPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := results.WriteJSON(f); err != nil {
			return err
		}
		logger.Info("results written", "path", *resultsPath)
	}
	return nil
}

// loadOrCreateParams reads the parameter file, writing one with defaults
// first when it does not exist yet.
func loadOrCreateParams(path string) (sim.Params, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		params := sim.DefaultParams()
		params.Scheme = "psk"
		params.Order = 4
		if saveErr := sim.SaveParams(path, params); saveErr != nil {
			return sim.Params{}, fmt.Errorf("write default config: %w", saveErr)
		}
		return params, nil
	}
	return sim.LoadParams(path)
}
