package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mongostore "github.com/quillpress/blog-platform/internal/infrastructure/db/mongo"
	"github.com/quillpress/blog-platform/internal/infrastructure/db/postgres"
	"github.com/quillpress/blog-platform/internal/pkg/config"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations to PostgreSQL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		applied, err := postgres.MigrateUp(cfg.Postgres.URL())
		if err != nil {
			return err
		}
		if !applied {
			fmt.Fprintln(cmd.OutOrStdout(), "no change")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var migrateIndexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes, including the unique username index",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		client, db, err := mongostore.Connect(cmd.Context(), mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(cmd.Context()) }()

		if err := mongostore.NewStore(client, db).EnsureIndexes(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "indexes ensured")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateIndexesCmd)
}
