package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadpoint/site-api/internal/core/domain"
)

func newSeedAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admin",
		Short: "Create indexes and the bootstrap admin account, then exit",
		Long: `Connects to MongoDB, which creates the indexes and the bootstrap admin
account when it does not exist yet. Running it again is harmless.

The account must change its password on first login.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeedAdmin(cmd.Context())
		},
	}
}

func runSeedAdmin(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.db.Disconnect(context.WithoutCancel(ctx)); err != nil {
			a.log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	if _, err := a.db.Connect(ctx); err != nil {
		return err
	}

	// Hooks only log their failures; confirm the account is really there.
	email := domain.NormalizeEmail(a.cfg.Admin.Email)
	if _, err := a.admins.FindByEmail(ctx, email); err != nil {
		return fmt.Errorf("bootstrap admin %s: %w", email, err)
	}
	a.log.Info().Str("email", email).Msg("bootstrap admin present")
	return nil
}
