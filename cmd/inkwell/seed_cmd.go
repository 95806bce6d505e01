package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"inkwell/internal/config"
	"inkwell/internal/seed"
	"inkwell/internal/store"
)

func newSeedCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Reset the category catalog to the built-in set",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil || cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			count, err := seed.Run(cmd.Context(), st)
			if err != nil {
				return err
			}

			slog.Default().Info("seeded categories", "count", count, "db", cfg.DBPath)
			return writePlain("seeded %d categories\n", count)
		},
	}
}
