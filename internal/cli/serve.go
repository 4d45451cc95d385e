package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lazypower/steady/internal/config"
	"github.com/lazypower/steady/internal/engine"
	"github.com/lazypower/steady/internal/server"
	"github.com/lazypower/steady/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

// featuresFromEnv builds the flag set from STEADY_FEATURES: unset enables
// every filtering feature, "none" disables all, otherwise a comma-separated
// list of feature names to enable.
func featuresFromEnv() *config.Features {
	features := config.NewFeatures()
	switch env := os.Getenv("STEADY_FEATURES"); env {
	case "":
		features.EnableAllKalman()
	case "none":
	default:
		for _, name := range strings.Split(env, ",") {
			features.Enable(strings.TrimSpace(name))
		}
	}
	return features
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	// Resolve database path
	dbPath := cfg.Database.Path
	if env := os.Getenv("STEADY_DB"); env != "" {
		dbPath = env
	}
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	features := featuresFromEnv()

	eng := engine.New(db, features, cfg.Engine.ReadingRetention)
	if loaded, err := eng.LoadTracked(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: load tracked signals: %v\n", err)
	} else if loaded > 0 {
		fmt.Fprintf(os.Stderr, "  signals: %d tracked\n", loaded)
	}

	eng.StartSnapshotTimer(time.Duration(cfg.Engine.SnapshotIntervalSec) * time.Second)
	defer eng.Stop()

	srv := server.New(db, eng, features, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "steady serving on %s\n", addr)
		fmt.Fprintf(os.Stderr, "  db: %s\n", dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
