package jobs

import (
	"context"
	"voxadmin/internal/repositories"
	"voxadmin/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// PreferenceCleanupJob removes default model preferences left behind by
// soft-deleted users.
type PreferenceCleanupJob struct {
	transaction *services.TransactionService
	preferences repositories.UserModelPreferenceRepository
	log         logger.Logger
	schedule    services.Schedule
}

func NewPreferenceCleanupJob(
	transaction *services.TransactionService,
	preferences repositories.UserModelPreferenceRepository,
	schedule services.Schedule,
) *PreferenceCleanupJob {
	return &PreferenceCleanupJob{
		transaction: transaction,
		preferences: preferences,
		log:         logger.New("preferenceCleanupJob"),
		schedule:    schedule,
	}
}

func (j *PreferenceCleanupJob) Name() string {
	return "PreferenceCleanup"
}

func (j *PreferenceCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	var deleted int64
	err := j.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		deleted, err = j.preferences.DeleteForDeletedUsers(ctx, tx)
		return err
	})
	if err != nil {
		return log.Err("preference cleanup failed", err)
	}

	if deleted > 0 {
		log.Info("Removed orphaned preferences", "count", deleted)
	}

	return nil
}

func (j *PreferenceCleanupJob) Schedule() services.Schedule {
	return j.schedule
}
