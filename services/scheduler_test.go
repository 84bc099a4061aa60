package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type chanSweeper struct {
	calls chan time.Duration
}

func (s *chanSweeper) Sweep(idle time.Duration) int {
	select {
	case s.calls <- idle:
	default:
	}
	return 0
}

type panicSweeper struct{}

func (panicSweeper) Sweep(time.Duration) int { panic("sessions corrupted") }

func TestSchedulerRecoversPanicsIntoLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s, err := NewScheduler(SchedulerConfig{SweepSpec: "@every 1s"}, nil, nil, panicSweeper{}, zap.New(core))
	require.NoError(t, err)

	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("panic").FilterLevelExact(zapcore.ErrorLevel).Len() > 0
	}, 3*time.Second, 50*time.Millisecond)
	entry := logs.FilterMessage("panic").All()[0]
	assert.Equal(t, "scheduler", entry.LoggerName)
	assert.Contains(t, entry.ContextMap()["error"], "sessions corrupted")
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(SchedulerConfig{SweepSpec: "every now and then"}, nil, nil, &chanSweeper{}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session-sweep")
}

func TestSchedulerRunsSweep(t *testing.T) {
	sweeper := &chanSweeper{calls: make(chan time.Duration, 1)}
	s, err := NewScheduler(SchedulerConfig{
		SweepSpec:   "@every 1s",
		SessionIdle: 30 * time.Minute,
	}, nil, nil, sweeper, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	select {
	case idle := <-sweeper.calls:
		assert.Equal(t, 30*time.Minute, idle)
	case <-time.After(3 * time.Second):
		t.Fatal("sweep job did not run")
	}
}
