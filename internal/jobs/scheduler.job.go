package jobs

import (
	"voxadmin/config"
	"voxadmin/internal/repositories"
	"voxadmin/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	svc services.Service,
	repos repositories.Repository,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	preferenceCleanupJob := NewPreferenceCleanupJob(
		svc.Transaction,
		repos.UserModelPreference,
		services.Hourly,
	)
	if err := schedulerService.AddJob(preferenceCleanupJob); err != nil {
		return log.Err("failed to register preference cleanup job", err)
	}
	log.Info("Registered preference cleanup job", "schedule", "hourly")

	return nil
}
