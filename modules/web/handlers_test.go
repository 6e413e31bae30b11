package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*fiber.App, *testEnv) {
	t.Helper()
	env := setupViews(t)
	app := newApp(Config{}, env.views, NewHandlers(env.sessions, false), nil)
	return app, env
}

func postForm(path string, form url.Values, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func get(path string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func decodeView(t *testing.T, resp *http.Response) View {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var v View
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestHTTP_LoginSetsCookieAndLogoutClearsIt(t *testing.T) {
	app, env := setupApp(t)
	env.register(t, "Kate")

	resp, err := app.Test(postForm("/login", url.Values{"username": {"KATE"}, "password": {testPassword}}, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	// The cookie is honoured: an authenticated visit to /login goes home.
	resp, err = app.Test(get("/login", cookie))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	resp, err = app.Test(get("/logout", cookie))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	cleared := sessionCookie(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	// The old token no longer authenticates.
	resp, err = app.Test(get("/login", cookie))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTP_LogoutWithoutSession(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(get("/logout", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestHTTP_LoginUnknownUser(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(postForm("/login", url.Values{"username": {"nobody"}, "password": {testPassword}}, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, sessionCookie(resp), "failed login must not set a session")

	view := decodeView(t, resp)
	assert.Equal(t, PageLogin, view.Page)
	assert.Equal(t, []string{MsgUserDoesNotExist, MsgBadCredentials}, view.Messages)
}

func TestHTTP_RegisterDuplicate(t *testing.T) {
	app, env := setupApp(t)
	env.register(t, "leo")

	resp, err := app.Test(postForm("/register", url.Values{
		"username":  {"Leo"},
		"password1": {testPassword},
		"password2": {testPassword},
	}, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeView(t, resp).Messages, MsgRegistrationFailed)
}

func TestHTTP_StatusMapping(t *testing.T) {
	app, _ := setupApp(t)

	tests := []struct {
		path   string
		status int
	}{
		{path: "/", status: http.StatusOK},
		{path: "/?q=go", status: http.StatusOK},
		{path: "/profile/ghost", status: http.StatusNotFound},
		{path: "/create-room", status: http.StatusUnauthorized},
		{path: "/topics?q=g", status: http.StatusOK},
		{path: "/activity?limit=-1", status: http.StatusBadRequest},
		{path: "/health", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(get(tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestHTTP_InvalidCookieIsCleared(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(get("/", &http.Cookie{Name: SessionCookieName, Value: "forged"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cleared := sessionCookie(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: nil, want: http.StatusOK},
		{err: domain.NewValidationError(), want: http.StatusBadRequest},
		{err: domain.ErrNotAuthenticated, want: http.StatusUnauthorized},
		{err: errors.Join(domain.ErrUserDoesNotExist, domain.ErrNotAuthenticated), want: http.StatusUnauthorized},
		{err: fmt.Errorf("wrapped: %w", domain.ErrNotFound), want: http.StatusNotFound},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestHTTP_RegisterStoreFailureRendersForm(t *testing.T) {
	env := setupViews(t)
	broken := &brokenIdentity{IdentityPort: env.identity, registerErr: errors.New("database is locked")}
	views := NewViews(broken, env.sessions, env.forum, env.activity)
	app := newApp(Config{}, views, NewHandlers(env.sessions, false), nil)

	resp, err := app.Test(postForm("/register", url.Values{
		"username":  {"mia"},
		"password1": {testPassword},
		"password2": {testPassword},
	}, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Nil(t, sessionCookie(resp))

	view := decodeView(t, resp)
	assert.Equal(t, PageLogin, view.Page)
	assert.Equal(t, []string{MsgRegistrationFailed}, view.Messages)
}
