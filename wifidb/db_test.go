package wifidb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	db, err := Open(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func TestAttemptsNewestFirst(t *testing.T) {
	db := openTestDB(t)

	started := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	for i, ssid := range []string{"home", "cafe", "office"} {
		err := db.AddAttempt(&Attempt{
			Ssid:      ssid,
			Started:   started.Add(time.Duration(i) * time.Minute),
			Finished:  started.Add(time.Duration(i)*time.Minute + 10*time.Second),
			Succeeded: ssid == "office",
		})
		require.NoError(t, err)
	}

	attempts, err := db.GetAttempts(0)
	require.NoError(t, err)
	require.Len(t, attempts, 3)

	assert.Equal(t, "office", attempts[0].Ssid)
	assert.Equal(t, uint64(3), attempts[0].Id)
	assert.True(t, attempts[0].Succeeded)
	assert.Equal(t, "home", attempts[2].Ssid)
	assert.True(t, attempts[2].Started.Equal(started))

	limited, err := db.GetAttempts(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "cafe", limited[1].Ssid)
}

func TestAttemptsEmpty(t *testing.T) {
	db := openTestDB(t)

	attempts, err := db.GetAttempts(10)
	require.NoError(t, err)
	assert.Empty(t, attempts)
	assert.NotNil(t, attempts)
}

func TestAttemptsSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, db.AddAttempt(&Attempt{Ssid: "home", Kind: "DriverFailure", Error: "association failed"}))
	require.NoError(t, db.Close())

	db, err = Open(dir)
	require.NoError(t, err)
	defer db.Close()

	attempts, err := db.GetAttempts(0)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, "DriverFailure", attempts[0].Kind)
	assert.Equal(t, filepath.Join(dir, "wifi.db"), db.Path())
}
