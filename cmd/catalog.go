package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// catalogCmd groups catalog maintenance commands.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the CMS catalog tables",
}

// catalogInitCmd creates the posts and postmeta tables. It is meant for
// local development against SQLite; a live CMS already has them.
var catalogInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the catalog tables if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		if rt.catalog == nil {
			return errors.New("catalog unavailable, check the database settings")
		}
		if err := rt.catalog.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("failed to create catalog tables: %w", err)
		}

		posts, postmeta := rt.catalog.Tables()
		rt.logger.Info("Catalog tables ready", zap.String("posts", posts), zap.String("postmeta", postmeta))
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogInitCmd)
	RootCmd.AddCommand(catalogCmd)
}
