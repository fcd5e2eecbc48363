package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/seed"
	"github.com/yourname/devtrack/internal/storage"
)

var seedRandom int64

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo accounts and sample data",
	Long: `Create two public demo accounts with topics, two weeks of logs and skills.

Accounts that already exist are left untouched.

Examples:
  devtrack seed                # Seed the configured backend
  devtrack seed --random 42    # Reproducible sample data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		store, err := storage.Open(cmd.Context(), cfg.DBType, cfg.DBDSN, cfg.DataFile, logger)
		if err != nil {
			return err
		}

		src := seedRandom
		if src == 0 {
			src = time.Now().UnixNano()
		}
		sum, err := seedAndClose(cmd.Context(), store, logger, time.Now().In(cfg.Location()), src)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Seeded %d users (%d skipped), %d topics, %d logs, %d skills\n",
			sum.Users, sum.Skipped, sum.Topics, sum.Logs, sum.Skills)
		if sum.Users > 0 {
			fmt.Fprintf(out, "Demo credentials: %s / %s\n", seed.DemoEmail, seed.DemoPassword)
		}
		return nil
	},
}

// seedAndClose seeds store and closes it. The file backend only writes its
// snapshot on Close, so a failed close means nothing was saved.
func seedAndClose(ctx context.Context, store storage.Store, logger internal.Logger, now time.Time, src int64) (*seed.Summary, error) {
	sum, err := seed.Run(ctx, store, logger, now, rand.New(rand.NewSource(src)))
	if closeErr := store.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("saving seed data: %w", closeErr)
	}
	if err != nil {
		return nil, err
	}
	return sum, nil
}

func init() {
	seedCmd.Flags().Int64Var(&seedRandom, "random", 0, "Random source for sample data (0 = time based)")
}
