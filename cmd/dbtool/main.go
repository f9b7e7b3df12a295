package main

import (
	"campus-activity-service/internal/adapters/repositories"
	"campus-activity-service/internal/config"
	"campus-activity-service/internal/platform/db"
	"database/sql"
	"flag"
	"log"
	"strings"

	"github.com/joho/godotenv"
)

// dbtool initializes and seeds the configured database without starting the server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	seedOnly := flag.Bool("seed-only", false, "skip schema creation")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var conn *sql.DB
	if cfg.DBDriver == db.Postgres {
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			log.Fatal("DATABASE_URL is required")
		}
		conn, err = db.Open(cfg.DatabaseURL)
	} else {
		conn, err = db.OpenSQLite(cfg.DBPath)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if !*seedOnly {
		log.Println("Initializing database schema...")
		if err := repositories.InitSchema(conn); err != nil {
			log.Fatalf("schema initialization failed: %v", err)
		}
		log.Println("Schema ready.")
	}

	log.Printf("Seeding database from %s...", cfg.SeedPath)
	if err := repositories.SeedFromJSON(conn, cfg.DBDriver, cfg.SeedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
