package db

import (
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	"tailscale.com/tsweb"
)

// AttachAdminRoutes mounts the debugging endpoints: a tailSQL live query
// browser over the run store and an on-demand gzipped database backup.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://chexbench.db", db.DB, &tailsql.DBOptions{
		Label: "CheXbench runs",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the run database", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backupPath := fmt.Sprintf("chexbench-backup-%d.db", time.Now().Unix())
		if _, err := db.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}

		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.gz", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		gzipWriter := gzip.NewWriter(w)
		defer gzipWriter.Close()
		if _, err := io.Copy(gzipWriter, backupFile); err != nil {
			log.Printf("Failed to stream backup: %v", err)
		}
	}))
}
