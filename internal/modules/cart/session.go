package cart

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "sf_session"

type sessionKey struct{}

// Sessions issues and verifies HS256 session tokens. The token's jti is the
// session id that scopes a cart.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessions(secret []byte, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{secret: secret, ttl: ttl, secure: secure, now: time.Now}
}

// Issue mints a token for a fresh session id.
func (s *Sessions) Issue() (id, token string, err error) {
	id = uuid.NewString()
	now := s.now()
	claims := &jwt.StandardClaims{
		Id:        id,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return id, token, nil
}

// Parse validates token and returns its session id.
func (s *Sessions) Parse(token string) (string, error) {
	claims := &jwt.StandardClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if claims.Id == "" {
		return "", fmt.Errorf("session token has no id")
	}
	return claims.Id, nil
}

// Middleware attaches a session id to every request, starting a new session
// when the cookie is missing, forged or expired.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			id, _ = s.Parse(c.Value)
		}
		if id == "" {
			newID, token, err := s.Issue()
			if err != nil {
				http.Error(w, "could not start session", http.StatusInternalServerError)
				return
			}
			id = newID
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    token,
				Path:     "/",
				MaxAge:   int(s.ttl.Seconds()),
				HttpOnly: true,
				Secure:   s.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), id)))
	})
}

// WithSession stores a session id on ctx.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionID returns the session id set by Middleware, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
