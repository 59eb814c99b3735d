package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"dat-backend/internal/shared"
	"dat-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr, redisPassword string, redisDB int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword, DB: redisDB},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)
	return &Scheduler{scheduler: scheduler}
}

// RegisterMaintenanceJobs wires the recurring sheet jobs.
func (s *Scheduler) RegisterMaintenanceJobs() error {
	if err := s.registerSnapshotSheetsJob(); err != nil {
		return err
	}
	return s.registerRefreshAliasesJob()
}

// Hourly snapshot keeps the disk fallbacks fresh enough that a sheet
// outage degrades to hour-old data instead of an error page.
func (s *Scheduler) registerSnapshotSheetsJob() error {
	payload, err := json.Marshal(shared.SnapshotSheetsPayload{})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		"0 * * * *",
		asynq.NewTask(shared.TypeSnapshotSheets, payload),
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register SnapshotSheets job", map[string]interface{}{"error": err.Error()})
		return err
	}
	logger.Info("registered SnapshotSheets: hourly", nil)
	return nil
}

// Alias sets are invalidated explicitly after writes; this sweep only
// bounds how long a direct sheet edit can go unnoticed.
func (s *Scheduler) registerRefreshAliasesJob() error {
	payload, err := json.Marshal(shared.RefreshSlugAliasesPayload{})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		"*/15 * * * *",
		asynq.NewTask(shared.TypeRefreshSlugAliases, payload),
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		logger.Error("failed to register RefreshSlugAliases job", map[string]interface{}{"error": err.Error()})
		return err
	}
	logger.Info("registered RefreshSlugAliases: every 15 minutes", nil)
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
