package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gqaudit/adapters/postgres"
	"gqaudit/internal"
	"gqaudit/internal/config"
	"gqaudit/ports"
	"gqaudit/ui"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	var archive ports.RunRepository
	if cfg.Archive.DatabaseURL != "" {
		db, err := sqlx.Connect("postgres", cfg.Archive.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to archive database:", err)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(context.Background(), db); err != nil {
			log.Fatal("Failed to prepare archive schema:", err)
		}
		archive = postgres.NewRunRepository(db)
	}

	app, err := ui.NewApp(ui.Config{
		Port:      cfg.Server.Port,
		ReportDir: cfg.Output.Dir,
		Archive:   archive,
		Log:       internal.DefaultLogger,
	})
	if err != nil {
		log.Fatal("Failed to create report browser:", err)
	}

	log.Printf("Starting report browser on http://localhost:%s", cfg.Server.Port)
	log.Fatal(app.Start())
}
