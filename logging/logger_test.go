package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFormatter(t *testing.T) {
	f := &CustomFormatter{SystemName: "portal-service"}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "Event ID: PETITION_APPROVE_CONFLICT, Description: no seats left",
		Data:    logrus.Fields{"event_id": "req-1"},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)

	line := string(out)
	assert.Contains(t, line, "Date: 2024-03-01, Time: 10:30:00")
	assert.Contains(t, line, "Event Source: portal-service")
	assert.Contains(t, line, "Event Type: WARNING")
	assert.Contains(t, line, "Event ID: req-1")
	assert.Contains(t, line, "no seats left")
}

func TestCustomFormatterSortsFields(t *testing.T) {
	f := &CustomFormatter{SystemName: "portal-service"}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "Event ID: PETITION_APPROVED, Description: Petition approved",
		Data: logrus.Fields{
			"project":  "p1",
			"capacity": 2,
			"event_id": "req-2",
			"petition": "x9",
		},
	}

	for i := 0; i < 20; i++ {
		out, err := f.Format(entry)
		require.NoError(t, err)
		assert.Contains(t, string(out), "Petition approved, capacity: 2, petition: x9, project: p1")
	}
}

func TestInitLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "portal.log")
	require.NoError(t, InitLogger(Options{SystemName: "test", File: path, Level: "debug"}))
	t.Cleanup(func() { Logger.SetOutput(os.Stderr) })

	Logger.Info("Event ID: TEST, Description: hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Description: hello")
	assert.Equal(t, logrus.DebugLevel, Logger.GetLevel())
}
