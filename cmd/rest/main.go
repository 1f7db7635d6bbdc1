package main

import (
	"context"
	"log"

	"github.com/reletz/cornelius/internal/bootstrap"
	"github.com/reletz/cornelius/internal/config"
	"github.com/reletz/cornelius/internal/server"
	"github.com/reletz/cornelius/internal/tracer"
	"github.com/reletz/cornelius/pkg/database"
)

func main() {
	// 1. Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Configuration
	cfg := config.Load()

	// 3. Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Dependency container
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Background event consumer
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 6. HTTP server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
