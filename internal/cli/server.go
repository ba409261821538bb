package cli

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goMarketd/internal/config"
	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/rpc"
	"github.com/LeJamon/goMarketd/internal/storage"

	_ "github.com/LeJamon/goMarketd/internal/core/tx/all"
)

var (
	// Server flags
	port     int
	bindAddr string
)

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the marketd daemon",
	Long: `Start the marketd server which provides:
- HTTP JSON-RPC API (submit and ledger entry queries)
- WebSocket feed of applied transactions

This is the default command when no subcommand is specified.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return serverCmd.RunE(cmd, args)
	}

	serverCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	serverCmd.Flags().StringVar(&bindAddr, "bind", "", "address to bind to (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if bindAddr != "" {
		cfg.Server.Bind = bindAddr
	}

	db, err := storage.Open(cfg.Database.Backend, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	store, err := ledger.NewStore(db, cfg.Database.CacheSize)
	if err != nil {
		return fmt.Errorf("open ledger store: %w", err)
	}

	engine := tx.NewEngine(store)
	feeCfg, err := cfg.FeeConfig()
	if err != nil {
		return err
	}
	if err := engine.Bootstrap(feeCfg); err != nil {
		return fmt.Errorf("bootstrap fee config: %w", err)
	}

	publisher := rpc.NewPublisher()
	engine.OnApplied = publisher.Publish

	mux := http.NewServeMux()
	mux.Handle("/", rpc.NewServer(engine, store))
	mux.Handle("/ws", publisher)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"marketd"}`))
	})

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	if !quiet {
		fmt.Printf("marketd listening on %s (backend: %s)\n", cfg.ListenAddr(), cfg.Database.Backend)
		fmt.Printf("  - JSON-RPC:  http://localhost:%d/\n", cfg.Server.Port)
		fmt.Printf("  - WebSocket: ws://localhost:%d/ws\n", cfg.Server.Port)
		fmt.Printf("  - Health:    http://localhost:%d/health\n", cfg.Server.Port)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
