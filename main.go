package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"zebu/adapters/battery"
	"zebu/adapters/memory"
	"zebu/adapters/postgres"
	"zebu/adapters/rng"
	"zebu/adapters/stats/engine"
	"zebu/app"
	"zebu/internal"
	"zebu/internal/config"
	"zebu/ports"
	"zebu/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var results ports.ResultRepository
	if appConfig.Database.Enabled() {
		db, err := postgres.Open(ctx, appConfig.Database.URL)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		results = postgres.NewResultRepository(db)
		log.Println("Storing results in PostgreSQL")
	} else {
		results = memory.NewResultRepository()
		log.Println("DATABASE_URL not set, keeping results in memory")
	}

	service := app.NewAssociationService(
		engine.NewStatsEngine(engine.Options{MaxCells: appConfig.Analysis.MaxCells}),
		battery.NewPermutationReferee(rng.NewAdapter(), appConfig.Analysis.Workers),
		battery.NewAnalyticReferee(),
		results,
		app.Defaults{
			Permutations: appConfig.Analysis.Permutations,
			Seed:         appConfig.Analysis.Seed,
			PAdjust:      appConfig.Analysis.PAdjust,
		},
	)

	gin.SetMode(appConfig.Server.GinMode)
	server := ui.NewServer(service)

	errc := make(chan error, 1)
	go func() {
		errc <- server.Start(":" + appConfig.Server.Port)
	}()

	select {
	case err := <-errc:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown failed: %v", err)
		}
	}
}
