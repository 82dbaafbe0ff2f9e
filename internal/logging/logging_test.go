package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAcceptsKnownLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", ""} {
		logger, err := New(level)
		require.NoError(t, err)
		require.NotNil(t, logger)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("not-a-level")
	require.Error(t, err)
}

func TestNopNeverPanics(t *testing.T) {
	require.NotPanics(t, func() {
		Nop().Info("discarded")
	})
}
