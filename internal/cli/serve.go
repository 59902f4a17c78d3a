package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/penguin-assist/penguin/internal/agent"
	"github.com/penguin-assist/penguin/internal/config"
	"github.com/penguin-assist/penguin/internal/history"
	"github.com/penguin-assist/penguin/internal/server"
)

var serveConfig string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", config.DefaultPath, "Path to config YAML")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the WebSocket assistant server",
	Long:  "Runs the penguin assistant as a WebSocket server.\nClients chat on /ws; the signature pack is hot-reloaded when the file changes.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	apiKey := cfg.APIKey()
	if apiKey == "" {
		return fmt.Errorf("no API key: set %s or configure provider.api_key_env", cfg.Provider.APIKeyEnv)
	}

	store, err := history.OpenSQLite(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer store.Close()

	srv, err := server.New(cfg, store)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ag, err := agent.New(ctx, agent.Config{
		BaseURL:      cfg.Provider.BaseURL,
		APIKey:       apiKey,
		Model:        cfg.Provider.Model,
		Classify:     srv.Classify,
		ConfirmTools: cfg.Tools.Confirm,
	})
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	srv.SetResponder(ag)

	if cfg.Signatures.Path != "" {
		reloader, err := server.NewReloader(srv, cfg.Signatures.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
		} else {
			go reloader.Run(ctx)
			log.Printf("[INFO] Watching signature pack %s", cfg.Signatures.Path)
		}
	}

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
		httpSrv.Shutdown(context.Background())
	}()

	log.Printf("[INFO] penguin listening on %s", cfg.Server.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
