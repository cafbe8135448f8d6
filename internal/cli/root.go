package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/terraincognita07/platelog/internal/cli.Version=...".
var Version = "dev"

type rootOptions struct {
	configPath string
}

// NewRootCommand builds the platelog command tree. Running it without a subcommand
// starts the server.
func NewRootCommand() *cobra.Command {
	options := &rootOptions{}

	root := &cobra.Command{
		Use:           "platelog",
		Short:         "Meal logging API with photo-based macro estimation",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), options)
		},
	}
	root.PersistentFlags().StringVar(&options.configPath, "config", "", "path to a YAML config file (default $PLATELOG_CONFIG or ./platelog.yaml)")

	root.AddCommand(newServeCommand(options))
	root.AddCommand(newMigrateCommand(options))
	root.AddCommand(newEstimateCommand(options))
	root.AddCommand(newVersionCommand())
	return root
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "platelog %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
