// Command dbtool applies the goose migrations in
// internal/adapters/repositories/migrations against DATABASE_URL,
// generalized from the teacher's cmd/dbtool (InitSchema+SeedFromJSON)
// onto goose-managed Postgres migrations — this service has no seed data
// to load, only schema to bring up.
package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"hos-trip-service/internal/adapters/repositories/migrations"
	"hos-trip-service/internal/platform/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := migrate(conn); err != nil {
		log.Fatal(err)
	}
	log.Println("migrations applied")
}

func migrate(conn *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(conn, ".")
}
