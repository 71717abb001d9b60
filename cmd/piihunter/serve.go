package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/piihunter/pkg/config"
	"github.com/praetorian-inc/piihunter/pkg/logger"
	"github.com/praetorian-inc/piihunter/pkg/pattern"
	"github.com/praetorian-inc/piihunter/pkg/scanner"
	"github.com/praetorian-inc/piihunter/pkg/serve"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run as a streaming scan server over stdin/stdout",
		Long: `Run PII-Hunter as a long-lived streaming server that accepts scan requests
via stdin and writes findings to stdout, one JSON document per line.

Patterns are compiled once at startup. Requests are processed until stdin
closes, a "close" request arrives, or the process is interrupted.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringP("types", "t", "1,2,3", "Comma-separated PII types: 1=CreditCard, 2=Email, 3=Phone")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	registry, err := pattern.Builtin()
	if err != nil {
		return fmt.Errorf("loading patterns: %w", err)
	}
	specs := registry.Resolve(pattern.ParseSelection(cfg.Types))
	if len(specs) == 0 {
		return fmt.Errorf("no recognized PII types selected %q (use 1=CreditCard, 2=Email, 3=Phone)", cfg.Types)
	}

	s := scanner.New(specs, scanner.WithLogger(log.WithComponent("serve").Logger))

	srv := serve.NewServer(s, cmd.InOrStdin(), cmd.OutOrStdout())
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
