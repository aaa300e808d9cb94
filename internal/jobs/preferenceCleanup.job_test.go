package jobs

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxadmin/config"
	"voxadmin/internal/events"
	"voxadmin/internal/models"
	"voxadmin/internal/repositories"
	"voxadmin/internal/services"
	"voxadmin/internal/testutil"
)

func TestPreferenceCleanupJob_Execute(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	preferences := repositories.NewUserModelPreferenceRepository(nil)

	kept := testutil.CreateUser(t, db, "kept", false)
	removed := testutil.CreateUser(t, db, "removed", false)
	for _, userID := range []uuid.UUID{kept.ID, removed.ID} {
		require.NoError(t, preferences.Upsert(ctx, db.SQL, &models.UserModelPreference{
			UserID:        userID,
			ModelType:     models.ModelTypeTTS,
			ModelConfigID: uuid.New(),
		}))
	}
	require.NoError(t, db.SQL.Delete(removed).Error)

	job := NewPreferenceCleanupJob(services.NewTransactionService(db), preferences, services.Hourly)
	assert.Equal(t, "PreferenceCleanup", job.Name())
	assert.Equal(t, services.Hourly, job.Schedule())

	require.NoError(t, job.Execute(ctx))

	var remaining []models.UserModelPreference
	require.NoError(t, db.SQL.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].UserID)
}

func TestRegisterAllJobs(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repos := repositories.New(db)
	cfg := config.Config{JWTSecret: "0123456789abcdef", JWTTTLHours: 1}

	t.Run("disabled", func(t *testing.T) {
		svc := services.New(db, repos, cfg, events.New(nil))
		require.NoError(t, RegisterAllJobs(svc.Scheduler, cfg, svc, repos))
		assert.Zero(t, svc.Scheduler.GetJobCount())
	})

	t.Run("enabled", func(t *testing.T) {
		enabled := cfg
		enabled.SchedulerEnabled = true
		svc := services.New(db, repos, enabled, events.New(nil))
		require.NoError(t, RegisterAllJobs(svc.Scheduler, enabled, svc, repos))
		assert.Equal(t, 1, svc.Scheduler.GetJobCount())
	})
}
