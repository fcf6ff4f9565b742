// chexbench server: serves recorded evaluation runs, per-run metric reports
// and AUC comparison charts over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/radlab-data/chexbench/internal/api"
	"github.com/radlab-data/chexbench/internal/db"
)

var (
	dbPath = flag.String("db", "chexbench.db", "Path to the run database")
	listen = flag.String("listen", ":8080", "Listen address")
)

func main() {
	flag.Parse()

	// Subcommand dispatch: "chexbench migrate <action>" manages the schema
	// and exits.
	if args := flag.Args(); len(args) > 0 && args[0] == "migrate" {
		db.RunMigrateCommand(args[1:], *dbPath)
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open run database: %v", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()

	// Admin debugging routes (tailsql browser, backup download).
	database.AttachAdminRoutes(mux)

	apiMux := api.NewServer(database).ServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiMux))

	server := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(mux),
	}

	go func() {
		log.Printf("chexbench listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Printf("Graceful shutdown complete")
}
