package fstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huddle-io/huddle/internal/state"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "huddle", "credentials.json")

	s := New(file)
	require.NoError(t, s.Load())
	require.Equal(t, state.Credentials{}, s.Credentials())

	s.SetCredentials(state.Credentials{APIURL: "https://api.huddle.local", Token: "secret"})
	require.NoError(t, s.Store())

	_, err := os.Stat(file)
	require.NoError(t, err)

	loaded := New(file)
	require.NoError(t, loaded.Load())
	require.Equal(t, "https://api.huddle.local", loaded.Credentials().APIURL)
	require.Equal(t, "secret", loaded.Credentials().Token)
}
