package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/platelog/internal/config"
	"github.com/terraincognita07/platelog/internal/estimation"
	"github.com/terraincognita07/platelog/internal/services"
)

func newEstimateCommand(options *rootOptions) *cobra.Command {
	var promptKey bool

	command := &cobra.Command{
		Use:   "estimate <image-file>",
		Short: "Estimate a meal photo and print the draft as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(options.configPath)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}

			apiKey := strings.TrimSpace(cfg.Estimation.APIKey)
			if apiKey == "" && promptKey {
				fmt.Fprint(cmd.ErrOrStderr(), "Gemini API key: ")
				apiKey, err = readSecretNoEcho(os.Stdin)
				fmt.Fprintln(cmd.ErrOrStderr())
				if err != nil {
					return fmt.Errorf("read api key: %w", err)
				}
			}
			if apiKey == "" {
				return errors.New("GOOGLE_API_KEY is required (or pass --prompt-key)")
			}

			estimator, err := estimation.NewGeminiEstimator(cmd.Context(), estimation.Config{
				APIKey:  apiKey,
				Model:   cfg.Estimation.Model,
				Timeout: cfg.Estimation.Timeout,
			})
			if err != nil {
				return err
			}
			return runEstimate(cmd.Context(), estimator, args[0], cmd.OutOrStdout())
		},
	}
	command.Flags().BoolVar(&promptKey, "prompt-key", false, "read the API key from the terminal when GOOGLE_API_KEY is unset")
	return command
}

func runEstimate(ctx context.Context, estimator services.Estimator, imagePath string, out io.Writer) error {
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	draft, err := estimator.Estimate(ctx, image)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(draft)
}
