/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the lead-intake schedule service. Handles
  configuration, dependency wiring, the background pay-date roller, and
  graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse flags
  2. Initialize SQLite store
  3. Create API handler and router
  4. Start the pay-date roller
  5. Start server with graceful shutdown

CONFIGURATION:
  Flags override environment variables.
  -port / PORT              HTTP server port (default: 8080)
  -db / DB_PATH             SQLite database path (default: intake.db,
                            ":memory:" for in-memory)
  -log-level / LOG_LEVEL    logrus level (default: info)
  -roll-spec / ROLL_SPEC    cron expression for the pay-date roller
                            (default: "5 0 * * *")

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests (30s timeout)
  3. Stop the roller and close the database

SEE ALSO:
  - api/server.go: Router configuration
  - api/roller.go: Pay-date roll-forward job
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/lendfront/payroll-engine/api"
	"github.com/lendfront/payroll-engine/schedule"
	"github.com/lendfront/payroll-engine/store/sqlite"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "intake.db"), "SQLite database path")
	logLevel := flag.String("log-level", envStr("LOG_LEVEL", "info"), "log level")
	rollSpec := flag.String("roll-spec", envStr("ROLL_SPEC", "5 0 * * *"), "cron spec for the pay-date roller")
	flag.Parse()

	log := logrus.New()
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		log.SetLevel(level)
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer store.Close()

	handler := api.NewHandler(store)
	router := api.NewRouter(handler)

	roller := api.NewPayDateRoller(store, log)
	roller.Spec = *rollSpec
	if err := roller.Start(); err != nil {
		log.WithError(err).Fatal("failed to start pay date roller")
	}
	defer roller.Stop()

	// Catch up on anything that fell due while the service was down.
	if err := roller.RunOnce(context.Background(), schedule.DateOf(time.Now().UTC())); err != nil {
		log.WithError(err).Warn("startup roll-forward failed")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
