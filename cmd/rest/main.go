package main

import (
	"context"
	"log"

	"ai-voicetutor-be/internal/bootstrap"
	"ai-voicetutor-be/internal/config"
	"ai-voicetutor-be/internal/server"
	"ai-voicetutor-be/internal/tracer"
	"ai-voicetutor-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Embedding Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	if container.ProgressService != nil {
		go func() {
			log.Println("Background: Starting Progress Feed...")
			if err := container.ProgressService.Start(); err != nil {
				log.Printf("Background Progress Feed Error: %v", err)
			}
		}()
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
