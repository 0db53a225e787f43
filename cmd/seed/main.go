package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/saps13/sip/internal/config"
	"github.com/saps13/sip/internal/generator"
	"github.com/saps13/sip/internal/logging"
	"github.com/saps13/sip/internal/repository"
	"github.com/saps13/sip/internal/service"
	"github.com/saps13/sip/internal/supabase"
)

var errMissingDataset = errors.New("dataset not found")

func main() {
	var (
		datasetDir   = flag.String("dataset-dir", "./seed-data", "Directory containing accounts.json")
		accountsPath = flag.String("accounts", "", "Path to accounts.json (overrides dataset-dir)")
		workers      = flag.Int("workers", 4, "Number of concurrent workers for seeding")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "seed")

	accountsFile, err := resolveDatasetPath(*datasetDir, *accountsPath)
	if err != nil {
		logger.Error("dataset resolution failed", "error", err)
		os.Exit(1)
	}

	accounts, err := loadAccounts(accountsFile)
	if err != nil {
		logger.Error("failed to load accounts", "error", err, "path", accountsFile)
		os.Exit(1)
	}
	if len(accounts) == 0 {
		logger.Error("accounts dataset empty", "path", accountsFile)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backend, err := buildBackendClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to create supabase client", "error", err)
		os.Exit(1)
	}

	repo := repository.New(backend)
	svc := service.NewSIPService(backend, repo)
	seeder := service.NewBulkSeeder(svc, *workers)

	inputs, err := seedInputs(accounts)
	if err != nil {
		logger.Error("invalid dataset", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	logger.Info("seeding accounts", "count", len(inputs), "workers", *workers)
	if err := seeder.SeedAccounts(ctx, inputs); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	logger.Info("seeding complete", "duration", time.Since(start).String(), "accounts", len(inputs))
}

func resolveDatasetPath(baseDir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("stat %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}
	path := filepath.Join(baseDir, "accounts.json")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", errMissingDataset, path)
	}
	return path, nil
}

func loadAccounts(path string) ([]generator.Account, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var accounts []generator.Account
	if err := json.NewDecoder(file).Decode(&accounts); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return accounts, nil
}

func seedInputs(accounts []generator.Account) ([]service.SeedAccountInput, error) {
	inputs := make([]service.SeedAccountInput, 0, len(accounts))
	for _, account := range accounts {
		input := service.SeedAccountInput{
			Signup: service.SignupInput{
				Username: account.Username,
				Password: account.Password,
				Metadata: account.Metadata,
			},
		}
		for _, sip := range account.SIPs {
			startDate, err := time.Parse("2006-01-02", sip.StartDate)
			if err != nil {
				return nil, fmt.Errorf("account %s: invalid start_date %q", account.Username, sip.StartDate)
			}
			input.SIPs = append(input.SIPs, service.SeedSIPInput{
				SchemeName:    sip.SchemeName,
				MonthlyAmount: sip.MonthlyAmount,
				StartDate:     startDate,
			})
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

func buildBackendClient(ctx context.Context, cfg config.Config) (supabase.Client, error) {
	client, err := supabase.NewRESTClient(supabase.Options{
		BaseURL:    cfg.Supabase.BaseURL,
		AnonKey:    cfg.Supabase.AnonKey,
		ServiceKey: cfg.Supabase.ServiceKey,
		Timeout:    cfg.Supabase.Timeout,
	})
	if err != nil {
		return nil, err
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("verify backend connectivity: %w", err)
	}
	return client, nil
}
