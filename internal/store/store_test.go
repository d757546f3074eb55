package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesFileAndIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guidesync.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening an existing database must succeed (schema is idempotent).
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	var version int
	require.NoError(t, s2.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestClose_NilDBSafe(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}

func TestPreferences_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetPreference(ctx, "hb-tour-available")
	require.NoError(t, err)
	assert.False(t, ok, "absent key")

	require.NoError(t, s.SetPreference(ctx, "hb-tour-available", json.RawMessage(`false`)))

	raw, ok, err := s.GetPreference(ctx, "hb-tour-available")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `false`, string(raw))

	// Overwrite.
	require.NoError(t, s.SetPreference(ctx, "hb-tour-available", json.RawMessage(`true`)))
	raw, _, err = s.GetPreference(ctx, "hb-tour-available")
	require.NoError(t, err)
	assert.JSONEq(t, `true`, string(raw))
}

func TestSetPreference_RejectsInvalidJSON(t *testing.T) {
	s := openTestStore(t)
	err := s.SetPreference(context.Background(), "k", json.RawMessage(`{not json`))
	require.Error(t, err)
}

func TestDeletePreferencesByPrefix(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetPreference(ctx, "hb-tour-available", json.RawMessage(`false`)))
	require.NoError(t, s.SetPreference(ctx, "hb-welcome-seen", json.RawMessage(`true`)))
	require.NoError(t, s.SetPreference(ctx, "hb-theme", json.RawMessage(`"dark"`)))

	require.NoError(t, s.DeletePreferencesByPrefix(ctx, ResetPrefixes...))

	_, ok, err := s.GetPreference(ctx, "hb-tour-available")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.GetPreference(ctx, "hb-welcome-seen")
	require.NoError(t, err)
	assert.False(t, ok)

	// Unrelated keys survive the reset.
	_, ok, err = s.GetPreference(ctx, "hb-theme")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTourAvailable_DefaultsTrue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	available, err := s.TourAvailable(ctx)
	require.NoError(t, err)
	assert.True(t, available, "absence implies true")

	require.NoError(t, s.SetTourAvailable(ctx, false))
	available, err = s.TourAvailable(ctx)
	require.NoError(t, err)
	assert.False(t, available)
}

func TestSessionMarkerKey(t *testing.T) {
	assert.Equal(t, "hb-tour-shown-demo", SessionMarkerKey("demo"))
}
