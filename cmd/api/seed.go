package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/complaint-desk/internal/persistence"
	"github.com/spec-kit/complaint-desk/internal/repository"
	"github.com/spec-kit/complaint-desk/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo users, tickets and messages",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx := cmd.Context()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()
	if !pg.Enabled() {
		return errors.New("POSTGRES_DSN is required to seed")
	}

	pool := pg.PoolHandle()
	summary, err := seed.Run(ctx, seed.Repositories{
		Users:    repository.NewUserRepository(pool),
		Tickets:  repository.NewTicketRepository(pool),
		Messages: repository.NewMessageRepository(pool),
	}, cfg.Auth.BcryptCost, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d tickets, %d messages (password %s)\n",
		summary.Users, summary.Tickets, summary.Messages, seed.DemoPassword)
	return nil
}
