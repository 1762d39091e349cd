package model

import "time"

// Session is the server-side record an authenticated client's cookie points
// at. The cookie itself only carries the opaque session ID; everything the
// gateway needs to resolve identity lives here.
type Session struct {
	ID        string
	UserID    string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session's fixed lifetime has elapsed.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
