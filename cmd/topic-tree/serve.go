// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/topic-tree/internal/web"
)

// shutdownTimeout bounds how long in-flight reports may finish after a
// shutdown signal.
const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the browser front end",
		Long: `Serve starts an HTTP server with a form for the topic, year cutoff and tree
sizes, and renders the report in the browser. GET /api/v1/report returns the
same report as JSON. The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	a.v.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	srv, err := web.NewServer(a.newBuilder(), a.cfg.Tree, a.cfg.Serve.AllowedOrigins, a.logger)
	if err != nil {
		return err
	}
	httpSrv := srv.NewHTTPServer(a.cfg.Serve)

	ln, err := net.Listen("tcp", httpSrv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", httpSrv.Addr, err)
	}
	a.logger.Info("server listening", "addr", ln.Addr().String())

	return serve(cmd.Context(), httpSrv, ln, a.logger)
}

// serve runs srv on ln until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
