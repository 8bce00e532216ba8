package cart

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-session-secret")

func TestSessions_IssueParse(t *testing.T) {
	s := NewSessions(testSecret, time.Hour, false)

	id, token, err := s.Issue()
	require.NoError(t, err)
	got, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestSessions_RejectsForeignSecret(t *testing.T) {
	_, token, err := NewSessions([]byte("other"), time.Hour, false).Issue()
	require.NoError(t, err)

	_, err = NewSessions(testSecret, time.Hour, false).Parse(token)
	assert.Error(t, err)
}

func TestSessions_RejectsExpired(t *testing.T) {
	s := NewSessions(testSecret, time.Hour, false)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	_, token, err := s.Issue()
	require.NoError(t, err)
	_, err = s.Parse(token)
	assert.Error(t, err)
}

func TestSessions_RejectsNoneAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &jwt.StandardClaims{Id: "forged"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSessions(testSecret, time.Hour, false).Parse(token)
	assert.Error(t, err)
}

func TestSessions_Middleware(t *testing.T) {
	s := NewSessions(testSecret, time.Hour, true)
	var seen string
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	first := seen
	assert.NotEmpty(t, first)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, first, seen)
	assert.Empty(t, rec.Result().Cookies())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, first, seen)
	assert.Len(t, rec.Result().Cookies(), 1)
}
