package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/miraedance/atelier/config"
	"github.com/miraedance/atelier/database/seeders"
	"github.com/miraedance/atelier/internal/store"
)

// atelier seed — run registered database seeders.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		s, err := store.ConnectMongo(ctx, config.MongoURI(), config.MongoDB())
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer s.Close(context.Background())

		fmt.Println("Seeding…")
		if err := seeders.RunAll(ctx, s); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	},
}
