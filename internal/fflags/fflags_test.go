package fflags

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestEnvFlags(t *testing.T) {
	f := NewFFlags(zaptest.NewLogger(t).Sugar())
	f.RegisterEnvFlag("invitations", "HUDDLE_FFLAG_INVITATIONS", true)
	f.RegisterEnvFlag("feedback", "HUDDLE_FFLAG_FEEDBACK", false)

	enabled, err := f.GetFlag("invitations")
	require.NoError(t, err)
	require.True(t, enabled)

	t.Setenv("HUDDLE_FFLAG_INVITATIONS", "false")
	t.Setenv("HUDDLE_FFLAG_FEEDBACK", "not-a-bool")
	require.Equal(t, map[string]bool{"invitations": false, "feedback": false}, f.ListFlags())
	require.Equal(t, []string{"feedback", "invitations"}, f.Names())

	_, err = f.GetFlag("unknown")
	require.Error(t, err)
}

func TestComputedFlag(t *testing.T) {
	f := NewFFlags(zaptest.NewLogger(t).Sugar())
	smtpConfigured := false
	f.RegisterFlag("invitation-emails", func() bool { return smtpConfigured })

	enabled, err := f.GetFlag("invitation-emails")
	require.NoError(t, err)
	require.False(t, enabled)

	smtpConfigured = true
	enabled, err = f.GetFlag("invitation-emails")
	require.NoError(t, err)
	require.True(t, enabled)
}
