// Package auth keeps the signed-in user's id in a gorilla cookie session.
//
// The session never stores a role. Team roles are looked up per request by
// the tracker, so a promotion or deactivation takes effect immediately.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

// ErrNoUser is returned by UserID when the request carries no signed-in user.
var ErrNoUser = errors.New("no signed-in user")

// SessionUser is what LoadSessionUser injects into r.Context().
type SessionUser struct {
	ID string
}

// ObjectID parses the stored id.
func (u *SessionUser) ObjectID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(u.ID)
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// UserID returns the signed-in user's ObjectID.
func UserID(r *http.Request) (primitive.ObjectID, error) {
	u, ok := CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, ErrNoUser
	}
	return u.ObjectID()
}

// Actor returns the signed-in user's id. When there is none it writes 401
// and reports false; the handler should return.
func Actor(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := UserID(r)
	if err != nil {
		httpjson.Unauthorized(w)
		return primitive.NilObjectID, false
	}
	return id, true
}

// WithTestUser injects u into the request context the way LoadSessionUser
// does. Intended for handler tests.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// SessionManager owns the cookie store and session name.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie store. secure selects Secure +
// SameSite=None cookies (HTTPS); otherwise SameSite=Lax for local http.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// LoadSessionUser injects the session user into the request context.
// Requests without a valid session pass through unchanged.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			// Tampered or rotated-key cookie: treat as signed out.
			sm.log.Debug("session decode failed", zap.Error(err))
		}
		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			if id, _ := sess.Values[userIDKey].(string); id != "" {
				r = withUser(r, &SessionUser{ID: id})
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects requests without a session user with 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			httpjson.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SignIn stores userID in a fresh session.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[interface{}]interface{}{
		isAuthKey: true,
		userIDKey: userID.Hex(),
	}
	return sess.Save(r, w)
}

// SignOut expires the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}
