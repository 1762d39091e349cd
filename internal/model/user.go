// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// The ID is an application-generated xid string assigned by the repository on
// insert; no database-native identifier leaks into the domain model.
//
// Profile is an open key-value mapping of demographic/preference data. Its
// shape is owned by the client and the upstream worker agent; the supervisor
// only stores it and forwards it.
type User struct {
	ID           string         `json:"user_id"`
	Username     string         `json:"username"`
	PasswordHash string         `json:"-"` // never serialized
	Profile      map[string]any `json:"profile"`
	CreatedAt    time.Time      `json:"created_at"`
	LastLogin    *time.Time     `json:"last_login"` // nil until first successful login
}

// CanLogin reports whether the account has a usable password. A user stored
// without a hash (created through an internal flow) cannot authenticate.
func (u *User) CanLogin() bool {
	return u.PasswordHash != ""
}
