package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/solace-app/solace/internal/media"
	"github.com/solace-app/solace/internal/printer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the media gateway",
	Long: `Serve uploaded media over HTTP. Post image URLs resolve to this
gateway; it streams blob bytes from the store with a sniffed
content type.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := newSession(false)
	if err != nil {
		return err
	}
	defer s.Close()

	server := &http.Server{
		Addr:    s.cfg.Media.ListenAddr,
		Handler: media.NewRouter(s.store),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	printer.Info("Media gateway listening on %s\n", s.cfg.Media.ListenAddr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return printer.Error("Media gateway failed", err.Error())
		}
		return nil
	case <-ctx.Done():
	}

	printer.Info("Shutting down...\n")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return printer.Error("Shutdown failed", err.Error())
	}
	return nil
}
