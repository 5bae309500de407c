package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vibezone/internal/core/session"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	testActor  = "7f1e1b52-4a8b-4b8c-9a64-1d1f0f5e3c11"
)

// sessionCookie issues a signed cookie for actorID
func sessionCookie(t *testing.T, m *SessionMiddleware, actorID string) *http.Cookie {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, m.SetActor(w, r, actorID))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func actorEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := session.ActorID(r.Context())
		if !ok {
			id = "anonymous"
		}
		_, _ = w.Write([]byte(id))
	})
}

func TestNewSessionMiddleware_ShortSecret(t *testing.T) {
	_, err := NewSessionMiddleware("short")
	assert.ErrorIs(t, err, ErrSessionSecretTooShort)
}

func TestSessionMiddleware_OptionalActor(t *testing.T) {
	m, err := NewSessionMiddleware(testSecret)
	require.NoError(t, err)
	handler := m.OptionalActor(actorEcho())

	t.Run("with session", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
		r.AddCookie(sessionCookie(t, m, testActor))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, testActor, w.Body.String())
	})

	t.Run("without session", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, "anonymous", w.Body.String())
	})

	t.Run("tampered cookie", func(t *testing.T) {
		cookie := sessionCookie(t, m, testActor)
		cookie.Value = "x" + cookie.Value

		r := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
		r.AddCookie(cookie)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, "anonymous", w.Body.String())
	})

	t.Run("cookie signed with another key", func(t *testing.T) {
		other, err := NewSessionMiddleware("fedcba9876543210fedcba9876543210")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
		r.AddCookie(sessionCookie(t, other, testActor))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, "anonymous", w.Body.String())
	})
}

func TestSessionMiddleware_RequireActor(t *testing.T) {
	m, err := NewSessionMiddleware(testSecret)
	require.NoError(t, err)
	handler := m.RequireActor(actorEcho())

	r := httptest.NewRequest(http.MethodPost, "/api/videos/x/like", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AuthRequired")

	r = httptest.NewRequest(http.MethodPost, "/api/videos/x/like", nil)
	r.AddCookie(sessionCookie(t, m, testActor))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testActor, w.Body.String())
}

func TestSessionMiddleware_SetActorRejectsInvalidID(t *testing.T) {
	m, err := NewSessionMiddleware(testSecret)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	assert.Error(t, m.SetActor(w, r, "not-a-uuid"))
}

func TestSessionMiddleware_ClearActor(t *testing.T) {
	m, err := NewSessionMiddleware(testSecret)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/logout", nil)
	r.AddCookie(sessionCookie(t, m, testActor))
	w := httptest.NewRecorder()

	require.NoError(t, m.ClearActor(w, r))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}
