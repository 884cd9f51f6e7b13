package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	safecomms "github.com/safecomms/gosdk"
)

const (
	envAPIKey  = "SAFECOMMS_API_KEY"
	envBaseURL = "SAFECOMMS_BASE_URL"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	apiKey   string
	baseURL  string
	timeout  time.Duration
	textOnly bool
	verbose  bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "safecomms",
		Short: "Moderate content with the SafeComms API",
		Long: `Moderate text and images with the SafeComms API and print the raw JSON result.

The API key is read from --api-key, or from SAFECOMMS_API_KEY. A .env file in the
working directory is loaded first if present.

Examples:
  safecomms text "some message" --pii
  safecomms image https://example.com/cat.jpg --ocr
  safecomms upload ./cat.jpg --profile strict
  safecomms usage`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env is fine.
			_ = godotenv.Load()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.apiKey, "api-key", "", "API key (default: $"+envAPIKey+")")
	pf.StringVar(&flags.baseURL, "base-url", "", "Service base URL (default: $"+envBaseURL+" or the public endpoint)")
	pf.DurationVar(&flags.timeout, "timeout", 30*time.Second, "Per-request timeout")
	pf.BoolVar(&flags.textOnly, "text-only", false, "Target a deployment that only offers text moderation and usage")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log requests to stderr")

	root.AddCommand(
		newTextCmd(flags),
		newImageCmd(flags),
		newUploadCmd(flags),
		newUsageCmd(flags),
	)
	return root
}

// newClient builds an SDK client from flags, falling back to the environment.
func newClient(flags *globalFlags) (*safecomms.Client, *zap.Logger, error) {
	apiKey := flags.apiKey
	if apiKey == "" {
		apiKey = os.Getenv(envAPIKey)
	}
	baseURL := flags.baseURL
	if baseURL == "" {
		baseURL = os.Getenv(envBaseURL)
	}

	logger := zap.NewNop()
	if flags.verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	opts := []safecomms.Option{
		safecomms.WithAPIKey(apiKey),
		safecomms.WithTimeout(flags.timeout),
		safecomms.WithLogger(logger),
	}
	if baseURL != "" {
		opts = append(opts, safecomms.WithBaseURL(baseURL))
	}
	if flags.textOnly {
		opts = append(opts, safecomms.WithVariant(safecomms.VariantTextOnly))
	}

	client, err := safecomms.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, logger, nil
}

// run creates a client, calls fn and prints the result.
func run(cmd *cobra.Command, flags *globalFlags, fn func(context.Context, *safecomms.Client) (*safecomms.Result, error)) error {
	client, logger, err := newClient(flags)
	if err != nil {
		return err
	}
	defer client.Close()
	defer logger.Sync() //nolint:errcheck

	res, err := fn(cmd.Context(), client)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func printResult(w io.Writer, res *safecomms.Result) error {
	_, err := fmt.Fprintln(w, res.String())
	return err
}
