package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clementus360/simpliday/config"
	"clementus360/simpliday/handlers"
	"clementus360/simpliday/llm"
	"clementus360/simpliday/routes"
	"clementus360/simpliday/session"

	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != "" {
			cfg.Port = servePort
		}
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	svc, err := newServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	loc := cfg.Location()
	sessions := session.NewManager(svc.extractor, svc.store, cfg.SessionTTL, loc, defaultLanguage(cfg))
	go sessions.Run(ctx)

	h := handlers.New(svc.store, sessions, svc.extractor, llm.NewAdvisor(svc.extractor), loc)
	if cfg.SupabaseJWTSecret == "" {
		config.Logger.Warn("SUPABASE_JWT_SECRET not set, access tokens are decoded without verification")
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(h, cfg.SupabaseJWTSecret),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // extraction calls can be slow
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		config.Logger.Infof("Server is running on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("could not listen on %s: %w", addr, err)
	case <-quit:
	case <-ctx.Done():
	}
	config.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	config.Logger.Info("Server exiting gracefully")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default $PORT)")
}
