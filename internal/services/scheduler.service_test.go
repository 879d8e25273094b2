package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name     string
	schedule Schedule
	runs     int
	err      error
}

func (j *countingJob) Name() string       { return j.name }
func (j *countingJob) Schedule() Schedule { return j.schedule }

func (j *countingJob) Execute(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestSchedulerService_AddAndTrigger(t *testing.T) {
	scheduler := NewSchedulerService(time.FixedZone("engine", 330*60))
	job := &countingJob{name: "catalog-refresh", schedule: Daily}

	require.NoError(t, scheduler.AddJob(job))
	assert.Equal(t, 1, scheduler.GetJobCount())
	assert.False(t, scheduler.IsRunning())

	require.NoError(t, scheduler.TriggerJobByName(context.Background(), "catalog-refresh"))
	assert.Equal(t, 1, job.runs)
}

func TestSchedulerService_TriggerUnknownJob(t *testing.T) {
	scheduler := NewSchedulerService(nil)

	err := scheduler.TriggerJobByName(context.Background(), "missing")
	assert.Error(t, err)
}

func TestSchedulerService_TriggerPropagatesJobError(t *testing.T) {
	scheduler := NewSchedulerService(nil)
	job := &countingJob{name: "rules-warm", schedule: EveryMinute, err: errors.New("boom")}
	require.NoError(t, scheduler.AddJob(job))

	err := scheduler.TriggerJobByName(context.Background(), "rules-warm")
	assert.EqualError(t, err, "boom")
}

func TestSchedulerService_StartWithoutJobs(t *testing.T) {
	scheduler := NewSchedulerService(nil)

	require.NoError(t, scheduler.Start(context.Background()))
	assert.False(t, scheduler.IsRunning())
	require.NoError(t, scheduler.Stop(context.Background()))
}

func TestSchedulerService_StartAndStop(t *testing.T) {
	scheduler := NewSchedulerService(nil)
	require.NoError(t, scheduler.AddJob(&countingJob{name: "hourly", schedule: Hourly}))

	require.NoError(t, scheduler.Start(context.Background()))
	assert.True(t, scheduler.IsRunning())

	require.NoError(t, scheduler.Stop(context.Background()))
	assert.False(t, scheduler.IsRunning())
}
