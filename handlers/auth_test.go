package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"wrong username", "root", "secret"},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
				"username": tc.username,
				"password": tc.password,
			}, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body map[string]string
			decodeBody(t, rec, &body)
			assert.Equal(t, "Invalid username or password", body["error"])
		})
	}
}

func TestLoginLogoutStatusFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/auth/status", nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]interface{}
	decodeBody(t, rec, &status)
	assert.Equal(t, false, status["isAuthenticated"])

	cookie := env.login(t)
	assert.True(t, cookie.HttpOnly)

	rec = env.do(t, http.MethodGet, "/api/auth/status", nil, "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	status = nil
	decodeBody(t, rec, &status)
	assert.Equal(t, true, status["isAuthenticated"])
	assert.Equal(t, "admin", status["username"])

	rec = env.do(t, http.MethodPost, "/api/auth/logout", nil, "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	// the server-side session is gone, the old cookie no longer authenticates
	rec = env.do(t, http.MethodGet, "/api/auth/status", nil, "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	status = nil
	decodeBody(t, rec, &status)
	assert.Equal(t, false, status["isAuthenticated"])
}

func TestMutationsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/projects"},
		{http.MethodPut, "/api/projects/order"},
		{http.MethodPut, "/api/projects/1"},
		{http.MethodDelete, "/api/projects/1"},
		{http.MethodPost, "/api/projects/1/photos"},
		{http.MethodPut, "/api/projects/1/photos/order"},
		{http.MethodPost, "/api/photos"},
		{http.MethodPut, "/api/photos/order"},
		{http.MethodPut, "/api/photos/1"},
		{http.MethodDelete, "/api/photos/1"},
	}
	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec := env.do(t, route.method, route.path, nil, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body map[string]string
			decodeBody(t, rec, &body)
			assert.Equal(t, "Authentication required", body["error"])
		})
	}
}

func TestStaleCookieRejected(t *testing.T) {
	env := newTestEnv(t)

	forged := &http.Cookie{Name: SessionCookieName, Value: "deadbeefdeadbeef"}
	rec := env.doJSON(t, http.MethodPost, "/api/projects", map[string]string{"title": "x"}, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
