package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"Vibezone/internal/api/handlers"
	"Vibezone/internal/core/session"
)

const (
	// SessionName is the cookie that carries the viewer's session
	SessionName = "vibezone_session"
	// actorIDValue is the session value holding the viewer's profile id
	actorIDValue = "actor_id"

	// MinSessionSecretLength is the minimum signing key size
	MinSessionSecretLength = 32
)

// ErrSessionSecretTooShort is returned for signing keys below MinSessionSecretLength
var ErrSessionSecretTooShort = fmt.Errorf("SESSION_SECRET must be at least %d bytes", MinSessionSecretLength)

// SessionMiddleware resolves the viewer from a signed session cookie.
// The cookie is issued by the upstream sign-in flow.
type SessionMiddleware struct {
	store sessions.Store
}

// NewSessionMiddleware creates a cookie-backed session middleware
func NewSessionMiddleware(secret string) (*SessionMiddleware, error) {
	if len(secret) < MinSessionSecretLength {
		return nil, ErrSessionSecretTooShort
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionMiddleware{store: store}, nil
}

// OptionalActor attaches the viewer to the request context when the session
// carries one. Requests without a valid session continue anonymously.
func (m *SessionMiddleware) OptionalActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actorID := m.actorFromSession(r); actorID != "" {
			r = r.WithContext(session.WithActor(r.Context(), actorID))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireActor rejects requests without a session viewer
func (m *SessionMiddleware) RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID := m.actorFromSession(r)
		if actorID == "" {
			handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithActor(r.Context(), actorID)))
	})
}

// SetActor stores actorID in the session cookie.
//
// This server does not authenticate users itself. SetActor is the hook for
// the identity provider's sign-in callback, which runs in front of this
// service and shares SessionSecret; tests use it to mint sessions.
func (m *SessionMiddleware) SetActor(w http.ResponseWriter, r *http.Request, actorID string) error {
	id, err := uuid.Parse(actorID)
	if err != nil {
		return fmt.Errorf("invalid actor id: %w", err)
	}

	sess, err := m.store.Get(r, SessionName)
	if err != nil && sess == nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	sess.Values[actorIDValue] = id.String()
	return sess.Save(r, w)
}

// ClearActor expires the session cookie. It is the sign-out counterpart of
// SetActor.
func (m *SessionMiddleware) ClearActor(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.store.Get(r, SessionName)
	if err != nil && sess == nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

func (m *SessionMiddleware) actorFromSession(r *http.Request) string {
	sess, err := m.store.Get(r, SessionName)
	if err != nil {
		var cookieErr interface{ IsDecode() bool }
		if !errors.As(err, &cookieErr) {
			log.Printf("Failed to load session: %v", err)
		}
		return ""
	}

	raw, ok := sess.Values[actorIDValue].(string)
	if !ok {
		return ""
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return id.String()
}

// GetActorID extracts the viewer from the request context.
// Returns empty string if anonymous.
func GetActorID(r *http.Request) string {
	id, _ := session.ActorID(r.Context())
	return id
}
