package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/internreg/internal/db"
)

func main() {
	_ = godotenv.Load()

	dbURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	steps := flag.Int("steps", 1, "Number of migrations to roll back with down")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate [flags] up|down|version\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *dbURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	var err error
	switch cmd := flag.Arg(0); cmd {
	case "up", "":
		err = db.MigrateUp(*dbURL)
	case "down":
		err = db.MigrateDown(*dbURL, *steps)
	case "version":
		var (
			v     uint
			dirty bool
		)
		v, dirty, err = db.Version(*dbURL)
		if err == nil {
			fmt.Printf("version: %d dirty: %t\n", v, dirty)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("migration failed", "err", err)
		os.Exit(1)
	}

	fmt.Println("migrations complete")
}
