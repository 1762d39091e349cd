package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndCurrentUser(t *testing.T) {
	e := newEnv(t)

	cookie, userID := e.register(t, "alice")
	assert.NotEmpty(t, userID)
	assert.True(t, cookie.HttpOnly)

	rec, body := e.do(t, http.MethodGet, "/current-user", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, userID, user["user_id"])
	assert.NotContains(t, user, "password_hash")
}

func TestRegisterValidationError(t *testing.T) {
	e := newEnv(t)

	rec, body := e.do(t, http.MethodPost, "/register", map[string]any{
		"username": "ab",
		"password": "secret1",
	}, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username must be at least 3 characters", body["error"])
	assert.Equal(t, "REGISTRATION_ERROR", body["code"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice")

	rec, body := e.do(t, http.MethodPost, "/register", map[string]any{
		"username": "alice",
		"password": "secret1",
	}, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already exists", body["error"])
	assert.Equal(t, "REGISTRATION_ERROR", body["code"])
}

func TestRegisterMalformedBody(t *testing.T) {
	e := newEnv(t)

	rec, body := e.do(t, http.MethodPost, "/register", nil, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", body["code"])
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice")

	rec, body := e.do(t, http.MethodPost, "/login", map[string]any{
		"username": "alice",
		"password": "secret1",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.NotNil(t, user["last_login"])
}

func TestLoginBadCredentials(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice")

	rec, body := e.do(t, http.MethodPost, "/login", map[string]any{
		"username": "alice",
		"password": "wrong",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid username or password", body["error"])
	assert.Equal(t, "AUTHENTICATION_ERROR", body["code"])
}

func TestLogoutInvalidatesSession(t *testing.T) {
	e := newEnv(t)
	cookie, _ := e.register(t, "alice")

	rec, body := e.do(t, http.MethodPost, "/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	// The old cookie no longer resolves to a session.
	rec, body = e.do(t, http.MethodGet, "/current-user", nil, cookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "NOT_AUTHENTICATED", body["code"])
}

func TestCurrentUserWithoutSession(t *testing.T) {
	e := newEnv(t)

	rec, body := e.do(t, http.MethodGet, "/current-user", nil, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authenticated", body["error"])
	assert.Equal(t, "NOT_AUTHENTICATED", body["code"])
}

func TestCurrentUserWithForgedCookie(t *testing.T) {
	e := newEnv(t)

	rec, body := e.do(t, http.MethodGet, "/current-user", nil, &http.Cookie{Name: "session", Value: "forged"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "NOT_AUTHENTICATED", body["code"])
}
