package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/saps13/sip/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		accounts       = flag.Int("accounts", cfg.NumAccounts, "number of accounts to generate")
		maxSIPs        = flag.Int("max-sips", cfg.MaxSIPsPerUser, "maximum SIP enrollments per account")
		reenrollChance = flag.Float64("reenroll-chance", cfg.ReenrollChance, "probability of re-enrolling in an existing scheme")
		futureChance   = flag.Float64("future-chance", cfg.FutureChance, "probability of a future start date")
		monthsBack     = flag.Int("months-back", cfg.MonthsBack, "maximum months in the past for start dates")
		seed           = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir      = flag.String("output-dir", "seed-data", "directory to write accounts.json")
		writeStdout    = flag.Bool("stdout", false, "write the dataset to stdout instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumAccounts:    *accounts,
		MaxSIPsPerUser: *maxSIPs,
		ReenrollChance: clampProbability(*reenrollChance),
		FutureChance:   clampProbability(*futureChance),
		MonthsBack:     *monthsBack,
		Seed:           *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(dataset); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d accounts into %s\n", len(dataset.Accounts), *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
