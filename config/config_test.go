package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	require.Equal(t, "http://127.0.0.1:20002/graphql", c.Backend.Endpoint)
	require.Equal(t, 30*time.Second, c.Backend.RequestTimeout)
	require.Equal(t, "remote-echo", c.Sync.Create)
	require.Equal(t, "optimistic", c.Sync.Delete)
	require.Equal(t, "optimistic", c.Sync.Update)
	require.False(t, c.Sync.Rollback)
	require.Equal(t, "warn", c.Log.Level)
}

func Test_Load_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend:
  endpoint: https://example.appsync-api.eu-west-1.amazonaws.com/graphql
  realtime-endpoint: wss://example.appsync-realtime-api.eu-west-1.amazonaws.com/graphql
  api-key: da2-key
  request-timeout: 5s
sync:
  create: optimistic
  rollback: true
log:
  level: debug
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	require.Equal(t, path, c.File)
	require.Equal(t, "da2-key", c.Backend.ApiKey)
	require.Equal(t, 5*time.Second, c.Backend.RequestTimeout)
	require.Equal(t, "optimistic", c.Sync.Create)
	require.Equal(t, "optimistic", c.Sync.Delete)
	require.True(t, c.Sync.Rollback)
	require.Equal(t, "debug", c.Log.Level)

	// save / load roundtrip keeps the values
	c.Backend.ApiKey = "da2-other"
	require.NoError(t, c.Save())
	c2, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "da2-other", c2.Backend.ApiKey)
}

func Test_Validate(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	c.Sync.Create = "eventually"
	require.Error(t, c.Validate())

	c, err = Default()
	require.NoError(t, err)
	c.Backend.Endpoint = "not a url"
	require.Error(t, c.Validate())
}

func Test_Load_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [1, 2"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
