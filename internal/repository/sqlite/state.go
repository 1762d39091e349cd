package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Saad-Mehboob-824/Supervisor/internal/repository"
)

// StateStore implements repository.StateRepository.
type StateStore struct {
	conn *sql.DB
}

var _ repository.StateRepository = (*StateStore)(nil)

// Get returns the user's state document, or an empty map if none has been
// written yet. Absence is not an error here; callers verify the user exists
// before reading state.
func (s *StateStore) Get(ctx context.Context, userID string) (map[string]any, error) {
	var stateJSON string
	err := s.conn.QueryRowContext(ctx,
		`SELECT state FROM user_state WHERE user_id = ?`, userID,
	).Scan(&stateJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("sqlite: getting state for user %s: %w", userID, err)
	}

	var state map[string]any
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return nil, fmt.Errorf("sqlite: decoding state for user %s: %w", userID, err)
	}
	return state, nil
}

// Set merges patch into the existing document at the top level and persists
// the result, returning the merged state.
func (s *StateStore) Set(ctx context.Context, userID string, patch map[string]any) (map[string]any, error) {
	state, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		state[k] = v
	}

	merged, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("sqlite: encoding state for user %s: %w", userID, err)
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO user_state (user_id, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		userID, string(merged), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: saving state for user %s: %w", userID, err)
	}

	return state, nil
}
