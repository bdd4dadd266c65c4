/*
main.go - Application entry point for the scheduling pipeline's runtime

PURPOSE:
  Initializes the SQLite-backed DataProvider, wires up the thin HTTP
  trigger surface and the background RunScheduler, and runs both until
  shutdown. Handles configuration, dependency injection, and graceful
  shutdown, in the same shape as the teacher's cmd/server/main.go.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Build a production zap logger
  3. Initialize the SQLite store
  4. Create the API handler and router
  5. Start the background RunScheduler (if -office is set)
  6. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path (default: scheduler.db)
             Use ":memory:" for an in-memory database
  -office    office to run the background scheduler for; empty disables it
  -interval  background scheduler tick interval (default: 1h)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the background scheduler
  2. Stop accepting new HTTP connections, drain in-flight requests (30s)
  3. Close the database connection

SEE ALSO:
  - api/server.go: router configuration
  - api/scheduler.go: background RunScheduler
  - store/sqlite/sqlite.go: DataProvider implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/aininja-pro/media-scheduler/api"
	"github.com/aininja-pro/media-scheduler/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "scheduler.db", "SQLite database path")
	office := flag.String("office", "", "office to run the background scheduler for (empty disables it)")
	interval := flag.Duration("interval", time.Hour, "background scheduler tick interval")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		sugar.Fatalf("failed to initialize database: %v", err)
	}
	defer store.Close()

	runs := api.NewRunStore()
	handler := api.NewHandler(store, runs, sugar)
	router := api.NewRouter(handler)

	var scheduler *api.RunScheduler
	if *office != "" {
		scheduler = api.NewRunScheduler(store, runs, *office, sugar)
		scheduler.CheckInterval = *interval
		scheduler.Start()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infof("server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Info("shutting down")

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		sugar.Fatalf("server forced to shutdown: %v", err)
	}

	sugar.Info("server stopped")
}
