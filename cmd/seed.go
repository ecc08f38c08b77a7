package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hnquoc/tableserve/internal/factories"
	"github.com/hnquoc/tableserve/internal/models"
	"github.com/hnquoc/tableserve/pkg/logger"
)

var seedBranchCount int

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with a demo catalog",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		log, err := logger.New(cfg.Environment)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building logger: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()

		st, err := buildStore(cfg, log)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if err := factories.Seed(context.Background(), st, seedBranchCount); err != nil {
			fmt.Fprintf(os.Stderr, "Seeding failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Seeded demo catalog with %d branches\n", seedBranchCount)
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedBranchCount, "branches", 2, "Number of demo branches to create")
	rootCmd.AddCommand(seedCmd)
}
