package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketreport/internal/aggregator"
	"marketreport/internal/config"
	"marketreport/internal/report"
)

type fakeGenerator struct {
	err   error
	calls atomic.Int32
}

func (f *fakeGenerator) Generate(context.Context) (*report.Result, error) {
	f.calls.Add(1)

	if f.err != nil {
		return nil, f.err
	}

	return &report.Result{Dir: "reports_2026-10-19"}, nil
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ScheduleConfig
		wantErr error
	}{
		{"valid", config.ScheduleConfig{Cron: "0 7 * * *", Timezone: "Europe/London"}, nil},
		{"empty timezone", config.ScheduleConfig{Cron: "@daily"}, nil},
		{"no cron", config.ScheduleConfig{}, ErrNoSchedule},
		{"bad cron", config.ScheduleConfig{Cron: "daily at seven"}, config.ErrInvalidSchedule},
		{"bad timezone", config.ScheduleConfig{Cron: "0 7 * * *", Timezone: "Nowhere/City"}, config.ErrInvalidTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg, &fakeGenerator{}, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestRunOnce_Outcomes(t *testing.T) {
	ok := &fakeGenerator{}
	empty := &fakeGenerator{err: aggregator.ErrEmptyDataset}
	broken := &fakeGenerator{err: errors.New("disk full")}

	cfg := config.ScheduleConfig{Cron: "@daily"}

	for _, tc := range []struct {
		gen  *fakeGenerator
		want Stats
	}{
		{ok, Stats{Runs: 2, Written: 2}},
		{empty, Stats{Runs: 2, Empty: 2}},
		{broken, Stats{Runs: 2, Failed: 2}},
	} {
		s, err := New(cfg, tc.gen, nil)
		require.NoError(t, err)

		s.RunOnce(context.Background())
		s.RunOnce(context.Background())

		assert.Equal(t, tc.want, s.Stats())
		assert.Equal(t, int32(2), tc.gen.calls.Load())
	}
}

func TestRun_TriggersOnScheduleAndStops(t *testing.T) {
	gen := &fakeGenerator{err: aggregator.ErrEmptyDataset}

	s, err := New(config.ScheduleConfig{Cron: "@every 1s"}, gen, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return gen.calls.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	stats := s.Stats()
	assert.GreaterOrEqual(t, stats.Runs, int64(1))
	assert.Equal(t, stats.Runs, stats.Empty, "empty runs keep the scheduler alive")
}
