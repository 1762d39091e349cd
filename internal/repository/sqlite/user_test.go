package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Saad-Mehboob-824/Supervisor/internal/apperror"
	"github.com/Saad-Mehboob-824/Supervisor/internal/model"
)

// newTestDB returns a DB backed by an in-memory database that is torn down
// with the test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, u *UserStore, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		PasswordHash: "$2a$04$fakehashfortesting",
		Profile:      map[string]any{"goal": "sleep"},
	}
	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestUserCreate(t *testing.T) {
	u := newTestDB(t).Users()

	user := &model.User{
		Username:     "alice",
		PasswordHash: "hash",
		Profile:      map[string]any{"age": 30},
	}
	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
	if user.LastLogin != nil {
		t.Error("Create() should leave LastLogin nil")
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	u := newTestDB(t).Users()
	createTestUser(t, u, "taken")

	dup := &model.User{Username: "taken", PasswordHash: "other"}
	err := u.Create(context.Background(), dup)
	if err == nil {
		t.Fatal("Create() should have failed for duplicate username")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}

	// Exactly one record survives the conflict.
	var count int
	if err := u.conn.QueryRow(`SELECT COUNT(*) FROM users WHERE username = ?`, "taken").Scan(&count); err != nil {
		t.Fatalf("counting users: %v", err)
	}
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}

func TestUserGetByUsername(t *testing.T) {
	u := newTestDB(t).Users()
	created := createTestUser(t, u, "bob")

	found, err := u.GetByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.PasswordHash != created.PasswordHash {
		t.Errorf("PasswordHash = %q, want %q", found.PasswordHash, created.PasswordHash)
	}
	if goal, _ := found.Profile["goal"].(string); goal != "sleep" {
		t.Errorf("Profile[goal] = %v, want %q", found.Profile["goal"], "sleep")
	}
}

func TestUserGetByUsername_CaseSensitive(t *testing.T) {
	u := newTestDB(t).Users()
	createTestUser(t, u, "Carol")

	_, err := u.GetByUsername(context.Background(), "carol")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByUsername(lowercase) error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	_, err := u.GetByID(context.Background(), "nonexistent-id")
	if err == nil {
		t.Fatal("GetByID() should have returned an error for nonexistent ID")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserUpdate(t *testing.T) {
	u := newTestDB(t).Users()
	user := createTestUser(t, u, "dave")
	originalID := user.ID
	originalCreatedAt := user.CreatedAt

	now := time.Now().UTC().Truncate(time.Second)
	user.Profile = map[string]any{"age": 25, "goal": "sleep"}
	user.LastLogin = &now
	if err := u.Update(context.Background(), user); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := u.GetByID(context.Background(), originalID)
	if err != nil {
		t.Fatalf("GetByID() after update: %v", err)
	}
	if found.LastLogin == nil || !found.LastLogin.Equal(now) {
		t.Errorf("LastLogin = %v, want %v", found.LastLogin, now)
	}
	if !found.CreatedAt.Equal(originalCreatedAt) {
		t.Errorf("Update() changed CreatedAt: got %v, want %v", found.CreatedAt, originalCreatedAt)
	}
	if found.ID != originalID {
		t.Errorf("Update() changed ID: got %q, want %q", found.ID, originalID)
	}
}

func TestUserUpdate_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	ghost := &model.User{ID: "never-inserted", Profile: map[string]any{}}
	err := u.Update(context.Background(), ghost)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestUserExists(t *testing.T) {
	u := newTestDB(t).Users()
	createTestUser(t, u, "erin")

	exists, err := u.Exists(context.Background(), "erin")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false for registered username")
	}

	exists, err = u.Exists(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true for unknown username")
	}
}
