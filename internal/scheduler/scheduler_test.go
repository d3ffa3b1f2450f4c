package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tanksounding/internal/config"
)

type stubReporter struct {
	report string
	err    error
}

func (r stubReporter) WeeklyReport(context.Context) (string, error) {
	return r.report, r.err
}

type countingSnapshotter struct {
	calls int
}

func (c *countingSnapshotter) Snapshot(context.Context) error {
	c.calls++
	return nil
}

type recordingNotifier struct {
	sent []string
}

func (n *recordingNotifier) SendText(_ context.Context, text string) error {
	n.sent = append(n.sent, text)
	return nil
}

func testConfig() config.ReportingConfig {
	return config.ReportingConfig{CronSchedule: "0 20 * * 5", SnapshotSchedule: "0 0 * * *", Timezone: "Europe/Oslo"}
}

func TestNewScheduler_InvalidTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.Timezone = "Nowhere/Atlantis"

	_, err := NewScheduler(cfg, stubReporter{}, nil, nil, nil)
	assert.Error(t, err)
}

func TestStart_RegistersJobs(t *testing.T) {
	s, err := NewScheduler(testConfig(), stubReporter{}, &countingSnapshotter{}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 2)
	assert.Equal(t, "Europe/Oslo", s.cron.Location().String())
}

func TestStart_InvalidSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.CronSchedule = "every friday"

	s, err := NewScheduler(cfg, stubReporter{}, nil, nil, nil)
	require.NoError(t, err)
	assert.Error(t, s.Start())
}

func TestSendWeeklyReport(t *testing.T) {
	notifier := &recordingNotifier{}
	s, err := NewScheduler(testConfig(), stubReporter{report: "usage"}, nil, notifier, nil)
	require.NoError(t, err)

	s.sendWeeklyReport()
	assert.Equal(t, []string{"usage"}, notifier.sent)
}

func TestSendWeeklyReport_ReportError(t *testing.T) {
	notifier := &recordingNotifier{}
	s, err := NewScheduler(testConfig(), stubReporter{err: errors.New("store offline")}, nil, notifier, nil)
	require.NoError(t, err)

	s.sendWeeklyReport()
	assert.Empty(t, notifier.sent)
}

func TestTakeSnapshot(t *testing.T) {
	snapshots := &countingSnapshotter{}
	s, err := NewScheduler(testConfig(), stubReporter{}, snapshots, nil, nil)
	require.NoError(t, err)

	s.takeSnapshot()
	assert.Equal(t, 1, snapshots.calls)
}
