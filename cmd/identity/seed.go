package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/campushub/identity/internal/config"
	"github.com/campushub/identity/internal/repository/sqlite"
	"github.com/campushub/identity/internal/service"
)

const defaultAdminTimeout = 30 * time.Second

type seedFlags struct {
	file    string
	reset   bool
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	flags := &seedFlags{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the credential store from a seed file",
		Long: `Creates the accounts listed in a JSON seed file. By default existing
accounts are left untouched and matching emails are skipped. With --reset
the store is cleared first: every existing account is discarded, including
ones not in the seed file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.file, "file", "seeds.json", "path to the JSON seed file")
	cmd.Flags().BoolVar(&flags.reset, "reset", false, "destructively clear the store before seeding")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", defaultAdminTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, flags *seedFlags) error {
	accounts, err := loadSeedFile(flags.file)
	if err != nil {
		return err
	}

	store, db, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
	defer cancel()

	seeder := service.NewSeeder(store)

	var report *service.SeedReport
	if flags.reset {
		cmd.Printf("Reseeding: clearing store and applying %d record(s)\n", len(accounts))
		report, err = seeder.Reseed(ctx, accounts)
		cmd.Printf("Deleted %d existing account(s)\n", report.Deleted)
	} else {
		cmd.Printf("Ensuring %d seed record(s) exist\n", len(accounts))
		report, err = seeder.EnsureSeeded(ctx, accounts)
	}

	for _, res := range report.Results {
		switch res.Outcome {
		case service.SeedCreated:
			cmd.Printf("  created  %s\n", res.Email)
		case service.SeedSkipped:
			cmd.Printf("  skipped  %s (already exists)\n", res.Email)
		case service.SeedFailed:
			cmd.Printf("  FAILED   %s: %v\n", res.Email, res.Err)
		}
	}
	cmd.Printf("Done: %d created, %d skipped\n", report.Created, report.Skipped)

	if err != nil {
		return fmt.Errorf("seeding aborted: %w", err)
	}
	return nil
}

func loadSeedFile(path string) ([]service.SeedAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var accounts []service.SeedAccount
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("seed file %s contains no records", path)
	}
	return accounts, nil
}

// openStore loads config, opens the database, and runs migrations. The
// administrative commands share it so they see the same store the server
// does.
func openStore(ctx context.Context) (*service.CredentialStore, *sqlite.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return service.NewCredentialStore(db.Users(), cfg.BcryptCost), db, nil
}
