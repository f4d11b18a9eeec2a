// Command seed fills a database with generated demo data: one user with a
// pile of random claims and expense items.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"traveltracker/internal/datasource"
	"traveltracker/internal/storage/sqlite"
	"traveltracker/pkg/logging"
)

func main() {
	logging.Setup()

	dbPath := flag.String("db", "./data/traveltracker.db", "SQLite database path")
	claims := flag.Int("claims", 100, "number of claims to generate")
	items := flag.Int("items", 10, "expense items per claim")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	user, err := datasource.Seed(context.Background(), store, *claims, *items)
	if err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("database seeded",
		"database", *dbPath,
		"user", user.UUID(),
		"claims", *claims,
		"items", *claims*(*items),
	)
}
