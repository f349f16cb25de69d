package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projecthub/microservices/progress-service/models"
)

const (
	testDebounce = 30 * time.Millisecond
	waitFor      = 2 * time.Second
	tick         = 5 * time.Millisecond
)

func constant(percent int) *scriptedCalculator {
	return &scriptedCalculator{fn: func(int) (int, error) { return percent, nil }}
}

func TestTriggersCoalesceIntoOnePush(t *testing.T) {
	calc := constant(40)
	pusher := &fakePusher{}
	s := NewSynchronizer(1, calc, pusher, nil, testDebounce)
	t.Cleanup(s.Close)

	for i := 0; i < 5; i++ {
		s.Trigger(context.Background(), TriggerSubtaskChanged)
		time.Sleep(testDebounce / 5)
	}

	require.Eventually(t, func() bool { return len(pusher.pushed()) == 1 }, waitFor, tick)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, []float64{40}, pusher.pushed())
	assert.Equal(t, 1, calc.count())

	snap := s.Snapshot()
	assert.True(t, snap.HasHeld)
	assert.Equal(t, 40, snap.Held)
	require.NotNil(t, snap.LastRemote)
	assert.Equal(t, 40.0, *snap.LastRemote)
}

func TestUnchangedRemoteIsNotPushed(t *testing.T) {
	pusher := &fakePusher{}
	recorder := &fakeRecorder{}
	s := NewSynchronizer(1, constant(25), pusher, recorder, testDebounce)
	t.Cleanup(s.Close)

	remote := 25.0
	s.ObserveRemote(&remote)
	_, err := s.Flush(context.Background())
	require.NoError(t, err)

	assert.Empty(t, pusher.pushed())
	assert.Equal(t, 25, s.Snapshot().Held)
	activities := recorder.recorded()
	require.Len(t, activities, 1)
	assert.Equal(t, models.OutcomeUnchanged, activities[0].Outcome)
	assert.Nil(t, activities[0].Previous)
}

func TestFailedPushKeepsLocalValueAndRetries(t *testing.T) {
	pusher := &fakePusher{err: errNetwork}
	recorder := &fakeRecorder{}
	s := NewSynchronizer(1, constant(60), pusher, recorder, testDebounce)
	t.Cleanup(s.Close)

	var observed []int
	s.OnChange(func(snap models.ProgressSnapshot) { observed = append(observed, snap.Held) })

	report, err := s.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60, report.Percent)

	snap := s.Snapshot()
	assert.Equal(t, 60, snap.Held)
	assert.Nil(t, snap.LastRemote)
	assert.Contains(t, snap.LastPushErr, "network down")
	assert.Equal(t, []int{60}, observed)

	pusher.setErr(nil)
	s.Trigger(context.Background(), TriggerTaskStatus)
	require.Eventually(t, func() bool { return len(pusher.pushed()) == 1 }, waitFor, tick)

	require.Eventually(t, func() bool { return len(recorder.recorded()) == 2 }, waitFor, tick)
	require.NotNil(t, s.Snapshot().LastRemote)
	assert.Empty(t, s.Snapshot().LastPushErr)
	assert.Equal(t, []int{60}, observed, "held value did not change on retry")

	outcomes := []models.ActivityOutcome{}
	for _, a := range recorder.recorded() {
		outcomes = append(outcomes, a.Outcome)
	}
	assert.Equal(t, []models.ActivityOutcome{models.OutcomePushError, models.OutcomePushed}, outcomes)
}

func TestStaleRecomputeIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	calc := &scriptedCalculator{fn: func(call int) (int, error) {
		if call == 1 {
			close(started)
			<-release
			return 30, nil
		}
		return 60, nil
	}}
	pusher := &fakePusher{}
	s := NewSynchronizer(1, calc, pusher, nil, testDebounce)
	t.Cleanup(s.Close)

	flushed := make(chan models.ProgressReport, 1)
	go func() {
		report, _ := s.Flush(context.Background())
		flushed <- report
	}()
	<-started

	s.Trigger(context.Background(), TriggerSubtaskDeleted)
	require.Eventually(t, func() bool { return s.Snapshot().Held == 60 }, waitFor, tick)

	close(release)
	report := <-flushed
	assert.Equal(t, 30, report.Percent)
	assert.Equal(t, 60, s.Snapshot().Held)
	assert.Equal(t, []float64{60}, pusher.pushed())
}

func TestClosedSynchronizerIgnoresTriggers(t *testing.T) {
	calc := constant(10)
	s := NewSynchronizer(1, calc, &fakePusher{}, nil, testDebounce)

	s.Trigger(context.Background(), TriggerTaskStatus)
	s.Close()
	s.Trigger(context.Background(), TriggerTaskStatus)
	time.Sleep(3 * testDebounce)
	s.Wait()

	assert.Equal(t, 0, calc.count())
	_, err := s.Flush(context.Background())
	assert.ErrorIs(t, err, ErrSynchronizerClosed)
}

func TestComputeErrorLeavesStateAlone(t *testing.T) {
	calc := &scriptedCalculator{fn: func(int) (int, error) { return 0, errNetwork }}
	s := NewSynchronizer(1, calc, &fakePusher{}, nil, testDebounce)
	t.Cleanup(s.Close)

	_, err := s.Flush(context.Background())
	assert.ErrorIs(t, err, errNetwork)
	assert.False(t, s.Snapshot().HasHeld)
}

func TestRegistryReusesSynchronizers(t *testing.T) {
	pusher := &fakePusher{}
	registry := NewSynchronizerRegistry(constant(50), pusher, nil, testDebounce)
	t.Cleanup(registry.Close)

	assert.Same(t, registry.For(1), registry.For(1))
	assert.NotSame(t, registry.For(1), registry.For(2))

	remote := 10.0
	registry.Load(context.Background(), models.Project{ID: 3, Progress: &remote}, models.ProgressReport{ProjectID: 3, Percent: 50})
	require.Eventually(t, func() bool { return len(pusher.pushed()) == 1 }, waitFor, tick)
	assert.Equal(t, []float64{50}, pusher.pushed())

	old := registry.For(3)
	registry.Forget(3)
	assert.NotSame(t, old, registry.For(3))
}

func TestSeedReusesComputedReport(t *testing.T) {
	calc := constant(90)
	pusher := &fakePusher{}
	recorder := &fakeRecorder{}
	s := NewSynchronizer(1, calc, pusher, recorder, testDebounce)
	t.Cleanup(s.Close)

	s.Trigger(context.Background(), TriggerTaskStatus)
	s.Seed(context.Background(), models.ProgressReport{ProjectID: 1, Percent: 45}, TriggerInitialLoad)
	s.Wait()
	time.Sleep(3 * testDebounce)
	s.Wait()

	assert.Equal(t, 0, calc.count())
	assert.Equal(t, []float64{45}, pusher.pushed())
	assert.Equal(t, 45, s.Snapshot().Held)
	activities := recorder.recorded()
	require.Len(t, activities, 1)
	assert.Equal(t, TriggerInitialLoad, activities[0].Trigger)
}

func TestTimerFiringAfterFlushDoesNotRecompute(t *testing.T) {
	calc := constant(20)
	pusher := &fakePusher{}
	s := NewSynchronizer(1, calc, pusher, nil, time.Hour)
	t.Cleanup(s.Close)

	s.Trigger(context.Background(), TriggerSubtaskChanged)
	_, err := s.Flush(context.Background())
	require.NoError(t, err)

	// A timer that fired just before Flush stopped it still runs fire.
	s.fire()
	s.Wait()

	assert.Equal(t, 1, calc.count())
	assert.Equal(t, []float64{20}, pusher.pushed())
}
