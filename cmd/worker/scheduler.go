package main

import (
	"log"

	"dat-backend/internal/infrastructure/queue"
)

// asynqScheduler wraps queue.Scheduler with graceful shutdown.
type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(cfg *Config) *asynqScheduler {
	scheduler := queue.NewScheduler(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	if err := scheduler.RegisterMaintenanceJobs(); err != nil {
		log.Fatalf("scheduler registration failed: %v", err)
	}

	go func() {
		log.Println("scheduler starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatalf("scheduler failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Println("scheduler shutting down...")
	s.Scheduler.Shutdown()
	log.Println("scheduler stopped")
}
