package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxadmin/internal/types"
)

type countingJob struct {
	name     string
	schedule Schedule
	runs     int
}

func (j *countingJob) Name() string { return j.name }
func (j *countingJob) Schedule() Schedule { return j.schedule }
func (j *countingJob) Execute(ctx context.Context) error {
	j.runs++
	return nil
}

func TestSchedulerService_AddJobAndRun(t *testing.T) {
	scheduler := NewSchedulerService()
	job := &countingJob{name: "counting", schedule: Hourly}

	require.NoError(t, scheduler.AddJob(job))
	assert.Equal(t, 1, scheduler.GetJobCount())

	require.NoError(t, scheduler.RunJob(context.Background(), "counting"))
	assert.Equal(t, 1, job.runs)

	assert.ErrorIs(t, scheduler.RunJob(context.Background(), "missing"), types.ErrNotFound)
}

func TestSchedulerService_RejectsUnknownSchedule(t *testing.T) {
	scheduler := NewSchedulerService()

	err := scheduler.AddJob(&countingJob{name: "bad", schedule: Schedule(99)})

	assert.ErrorIs(t, err, types.ErrInvalidInput)
	assert.Zero(t, scheduler.GetJobCount())
}

func TestSchedulerService_StartStop(t *testing.T) {
	ctx := context.Background()
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.Start(ctx))
	assert.False(t, scheduler.IsRunning(), "no jobs, scheduler stays idle")

	require.NoError(t, scheduler.AddJob(&countingJob{name: "daily", schedule: Daily}))
	require.NoError(t, scheduler.Start(ctx))
	assert.True(t, scheduler.IsRunning())

	require.NoError(t, scheduler.Stop(ctx))
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerService_RejectsDuplicateName(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.AddJob(&countingJob{name: "cleanup", schedule: Hourly}))
	err := scheduler.AddJob(&countingJob{name: "cleanup", schedule: Daily})

	assert.ErrorIs(t, err, types.ErrConflict)
	assert.Equal(t, 1, scheduler.GetJobCount())
}
