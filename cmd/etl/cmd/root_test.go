package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoot_NoSubcommandIsUsageError(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(nil)

	require.ErrorIs(t, root.Execute(), errUsage)
}

func TestRun_BadLogLevelIsUsageError(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--log-level", "verbose"})

	err := root.Execute()
	require.True(t, errors.Is(err, errUsage), "got %v", err)
}

func TestCheckLogLevel(t *testing.T) {
	for _, lvl := range []string{"", "debug", "INFO", "warn", "warning", "error", "critical"} {
		flags := newRootCmd().PersistentFlags()
		require.NoError(t, flags.Set("log-level", lvl))
		require.NoError(t, checkLogLevel(flags), lvl)
	}
}
