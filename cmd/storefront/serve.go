package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/localrivet/storefront/server"
	"github.com/localrivet/storefront/transport/stdio"
	"github.com/localrivet/storefront/transport/tee"
	"github.com/localrivet/storefront/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP over stdin and stdout",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("Startup failed: %v", err)
		return err
	}

	serve := func(ctx context.Context) error {
		return server.ServeStdio(ctx, a.server, a.sessions.Release)
	}
	if dir := cfg.Logging.TeeDir; dir != "" {
		capture, err := tee.Open(dir)
		if err != nil {
			return fmt.Errorf("failed to open tee capture: %w", err)
		}
		defer capture.Close()
		logger.Info("Capturing stdio traffic in %s", dir)
		transport := stdio.NewStdioTransportWithReadWriter(capture.Reader(os.Stdin), capture.Writer(os.Stdout),
			types.TransportOptions{Logger: logger})
		serve = func(ctx context.Context) error {
			return server.Serve(ctx, a.server, transport, a.sessions.Release)
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return serve(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Storefront server stopping")
		return nil
	})
	return g.Wait()
}
