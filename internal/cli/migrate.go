package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/platelog/internal/config"
	"github.com/terraincognita07/platelog/internal/db"
)

func newMigrateCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), options, cmd.OutOrStdout())
		},
	}
}

func runMigrate(ctx context.Context, options *rootOptions, out io.Writer) error {
	cfg, err := config.Load(options.configPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database)

	users, err := db.NewRepositories(database).Users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}

	fmt.Fprintf(out, "Schema is up to date (%s, %d users)\n", databaseLabel(cfg), users)
	return nil
}
