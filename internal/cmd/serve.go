package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gravitrone/picker/internal/catalog"
)

// ServeCmd returns the `picker serve` command.
func ServeCmd() *cobra.Command {
	var (
		addr   string
		dbPath string
		seed   bool
		apiKey string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local product catalog server",
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := catalog.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if seed {
				if err := store.Seed(); err != nil {
					return err
				}
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           catalog.NewHandler(store, apiKey),
				ReadHeaderTimeout: 5 * time.Second,
			}
			color.New(color.FgCyan).Fprintf(c.OutOrStdout(), "catalog listening on %s (db %s)\n", addr, dbPath)
			return serve(ctx, srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().StringVar(&dbPath, "db", "picker.db", "sqlite database path")
	cmd.Flags().BoolVar(&seed, "seed", false, "insert demo products into an empty catalog")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "require this bearer key on catalog routes")
	return cmd
}

// serve runs srv until ctx is done, then shuts it down.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Printf("catalog shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
