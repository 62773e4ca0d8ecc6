package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stockfetcher/internal/aggregator"
	"stockfetcher/internal/api"
	"stockfetcher/internal/config"
)

func main() {
	// Cancel on interrupt for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stockfetcher",
		Short:         "Aggregate stock metrics from several market data providers",
		SilenceUsage:  true,
	}
	root.AddCommand(newServeCmd(), newQuoteCmd(), newSearchCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if addr != "" {
				cfg.ServerAddr = addr
			}
			logger := cfg.Logger(os.Stderr)

			server := api.NewServer(newAggregator(cfg, logger), logger)
			return server.ListenAndServe(cmd.Context(), cfg.ServerAddr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SERVER_ADDR)")
	return cmd
}

func newQuoteCmd() *cobra.Command {
	var opts aggregator.Options
	cmd := &cobra.Command{
		Use:   "quote SYMBOL",
		Short: "Print the merged report for one ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			agg := newAggregator(cfg, cfg.Logger(os.Stderr))

			report, err := agg.Stock(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&opts.News, "news", false, "attach recent company news")
	cmd.Flags().BoolVar(&opts.Performance, "performance", false, "attach the yearly performance series")
	cmd.Flags().StringVar(&opts.Period, "period", "", "performance period (only 5y is resampled)")
	return cmd
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Print reports for the searchable symbols matching QUERY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			agg := newAggregator(cfg, cfg.Logger(os.Stderr))

			return printJSON(cmd.OutOrStdout(), agg.Search(cmd.Context(), args[0]))
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
