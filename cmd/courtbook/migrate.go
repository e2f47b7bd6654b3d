package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/bumpyy/apartment-permata-hijau-sub000/migrations"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			pool, err := pgxpool.New(ctx, cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("connect to db: %w", err)
			}
			defer pool.Close()

			out := cmd.OutOrStdout()
			if status {
				list, err := migrations.Status(ctx, pool)
				if err != nil {
					return err
				}
				for _, m := range list {
					if m.Applied() {
						fmt.Fprintf(out, "%-32s applied %s\n", m.Name, m.AppliedAt.Format(time.RFC3339))
					} else {
						fmt.Fprintf(out, "%-32s pending\n", m.Name)
					}
				}
				return nil
			}

			applied, err := migrations.Apply(ctx, pool)
			if err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			for _, name := range applied {
				logger.WithField("migration", name).Info("migration applied")
			}
			if len(applied) == 0 {
				logger.Info("database is up to date")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "list migrations and whether they have been applied")
	return cmd
}
