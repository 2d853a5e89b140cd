package main

import (
	"context"
	"database/sql"
	"delivery-tracker/internal/adapters/store"
	"delivery-tracker/internal/config"
	"delivery-tracker/internal/platform/db"
	"delivery-tracker/internal/platform/logger"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// dbtool prepares the tracker's storage: the local SQLite schema, the
// shared Postgres address cache when DATABASE_URL is set, and an optional
// session seed for demo devices.
func main() {
	if err := config.LoadDotEnv(); err != nil {
		logrus.Fatal(err)
	}
	if err := logger.Setup(config.Get("LOG_LEVEL", "info"), ""); err != nil {
		logrus.Fatal(err)
	}

	sqlitePath := config.Get("SQLITE_PATH", "tracker.db")
	local, err := db.OpenSQLite(sqlitePath)
	if err != nil {
		logrus.Fatal(err)
	}
	defer local.Close()

	logrus.WithField("path", sqlitePath).Info("initializing sqlite schema")
	if err := store.InitSqliteSchema(local); err != nil {
		logrus.Fatalf("schema initialization failed: %v", err)
	}

	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		if err := initPostgres(databaseURL); err != nil {
			logrus.Fatalf("postgres initialization failed: %v", err)
		}
	}

	if seedPath := os.Getenv("SEED_PATH"); seedPath != "" {
		if err := seed(local, seedPath); err != nil {
			logrus.Fatalf("seeding failed: %v", err)
		}
	}
	logrus.Info("storage ready")
}

func initPostgres(databaseURL string) error {
	pg, err := db.Open(databaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	logrus.Info("initializing postgres address cache")
	return store.InitPostgresSchema(pg)
}

func seed(local *sql.DB, seedPath string) error {
	n, err := store.SeedSessionFromJSON(context.Background(), store.NewSqliteSessionStore(local), seedPath)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"path": seedPath, "keys": n}).Info("session seeded")
	return nil
}
