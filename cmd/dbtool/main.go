package main

import (
	"cluster-route-service/internal/adapters/repositories"
	"cluster-route-service/internal/config"
	"cluster-route-service/internal/platform/db"
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	driver := flag.String("driver", config.Get("DB_DRIVER", "postgres"), "database driver: sqlite or postgres")
	seedPath := flag.String("seed", config.Get("SEED_PATH", "data/seeds/orders.json"), "orders seed file")
	flag.Parse()

	dialect, err := repositories.ParseDialect(*driver)
	if err != nil {
		log.Fatal(err)
	}

	var conn *sql.DB
	if dialect == repositories.Postgres {
		databaseURL := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(databaseURL) == "" {
			log.Fatal("DATABASE_URL is required")
		}
		conn, err = db.Open(databaseURL)
	} else {
		conn, err = db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
	}
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(context.Background(), conn, dialect, *seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect repositories.Dialect, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	n, err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath)
	if err != nil {
		return err
	}
	log.Printf("Seeding complete. orders=%d", n)

	return nil
}
