package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/lifevault/internal/cli"
	"github.com/dmitrijs2005/lifevault/internal/config"
	"github.com/dmitrijs2005/lifevault/internal/database"
	"github.com/dmitrijs2005/lifevault/internal/filex"
	"github.com/dmitrijs2005/lifevault/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if cfg.DBFile != config.MemoryDB {
		if cfg.DataDir, err = filex.EnsureDir(cfg.DataDir); err != nil {
			log.Fatalf("%v", err)
		}
	}

	db, err := database.InitDatabase(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer db.Close()

	logger.Debug(ctx, "database ready", "path", cfg.DSN())

	app := cli.NewApp(cfg, db, logger, os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "lifevault stopped", "error", err)
		os.Exit(1)
	}
}
