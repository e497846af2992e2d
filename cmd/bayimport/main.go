// Command bayimport loads a sensor CSV export into the SQLite bay_sensors table,
// so the server can run with DATA_SOURCE=sqlite.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/jengzang/kerbside-backend-go/internal/database"
	"github.com/jengzang/kerbside-backend-go/internal/ingest"
	"github.com/jengzang/kerbside-backend-go/internal/logger"
)

func main() {
	csvPath := flag.String("csv", "./data/parking_results_for_comparison.csv", "CSV file or http(s) URL")
	dbPath := flag.String("db", "./data/kerbside.db", "SQLite database path")
	flag.Parse()

	l := logger.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	ctx := context.Background()

	db, err := database.Open(database.Config{Path: *dbPath})
	if err != nil {
		l.Error("database_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		l.Error("migration_error", "err", err)
		os.Exit(1)
	}

	batch, err := ingest.NewCSVSource(*csvPath, nil).Fetch(ctx)
	if err != nil {
		l.Error("fetch_error", "err", err)
		os.Exit(1)
	}

	if err := ingest.ReplaceBays(ctx, db, batch.Rows); err != nil {
		l.Error("import_error", "err", err)
		os.Exit(1)
	}

	valid := len(ingest.Normalize(batch.Rows))
	l.Info("import_done", "rows", len(batch.Rows), "valid", valid, "db", *dbPath)
}
