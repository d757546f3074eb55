package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Storage keys for tour client state. These mirror the keys the browser
// client persists, so exported state stays interchangeable.
const (
	// KeyTourAvailable holds a JSON boolean; absence means true.
	KeyTourAvailable = "hb-tour-available"

	// SessionKeyPrefix prefixes per-tour session markers:
	// "hb-tour-shown-<tourId>".
	SessionKeyPrefix = "hb-tour-shown-"
)

// ResetPrefixes are the key prefixes removed by a full tour-state reset,
// in both durable and session storage.
var ResetPrefixes = []string{"hb-tour-", "hb-welcome-"}

// SessionMarkerKey returns the session marker key for a tour id.
func SessionMarkerKey(tourID string) string {
	return SessionKeyPrefix + tourID
}

// GetPreference returns the JSON value stored under key. The boolean
// reports whether the key was present.
func (s *Store) GetPreference(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get preference %q: %w", key, err)
	}
	return json.RawMessage(value), true, nil
}

// SetPreference stores a JSON value under key, overwriting any prior value.
func (s *Store) SetPreference(ctx context.Context, key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return fmt.Errorf("set preference %q: value is not valid JSON", key)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}

// DeletePreferencesByPrefix removes every preference whose key starts with
// one of the given prefixes.
func (s *Store) DeletePreferencesByPrefix(ctx context.Context, prefixes ...string) error {
	for _, prefix := range prefixes {
		// ESCAPE guards against prefixes containing LIKE wildcards.
		pattern := escapeLike(prefix) + "%"
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM preferences WHERE key LIKE ? ESCAPE '\'`, pattern,
		)
		if err != nil {
			return fmt.Errorf("delete preferences with prefix %q: %w", prefix, err)
		}
	}
	return nil
}

// TourAvailable reads the tour availability preference. Absence of the key
// means tours are available.
func (s *Store) TourAvailable(ctx context.Context) (bool, error) {
	raw, ok, err := s.GetPreference(ctx, KeyTourAvailable)
	if err != nil {
		return true, err
	}
	if !ok {
		return true, nil
	}
	var available bool
	if err := json.Unmarshal(raw, &available); err != nil {
		return true, fmt.Errorf("decode %q: %w", KeyTourAvailable, err)
	}
	return available, nil
}

// SetTourAvailable persists the tour availability preference.
func (s *Store) SetTourAvailable(ctx context.Context, available bool) error {
	value, _ := json.Marshal(available)
	return s.SetPreference(ctx, KeyTourAvailable, value)
}

func escapeLike(s string) string {
	var out []byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
