package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/learnhub/credits-api/internal/domain/store"
)

func init() {
	rootCmd.AddCommand(seedCatalogCmd)
	seedCatalogCmd.Flags().StringP("file", "f", "configs/catalog.toml", "TOML file with [[item]] entries")
}

var seedCatalogCmd = &cobra.Command{
	Use:   "seed-catalog",
	Short: "Create or update store items from a TOML file",
	Long: `Upserts every [[item]] of the file by slug. Existing items keep their id,
so inventories and equipped slots stay valid.`,
	RunE: runSeedCatalog,
}

func runSeedCatalog(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	items, err := store.LoadSeedFile(path)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	created, updated, err := a.catalog.Seed(cmd.Context(), items)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Catalog seeded from %s: %d created, %d updated\n", path, created, updated)
	return nil
}
