package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shopfront/internal/model"
)

// MockSessionProvider is a mock implementation of session.Provider.
type MockSessionProvider struct {
	mock.Mock
}

func (m *MockSessionProvider) EnsureSession(ctx context.Context, token string) (model.Session, bool, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Session), args.Bool(1), args.Error(2)
}

func TestWithSession_CreatesSessionAndSetsCookie(t *testing.T) {
	sess := model.Session{ID: uuid.New(), CreatedAt: time.Now()}

	provider := new(MockSessionProvider)
	provider.On("EnsureSession", mock.Anything, "").Return(sess, true, nil)

	var got model.Session
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	WithSession(provider, time.Hour, zerolog.Nop())(next).ServeHTTP(rec, req)

	require.True(t, ok, "the session must be attached to the request context")
	assert.Equal(t, sess.ID, got.ID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, sess.ID.String(), cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	provider.AssertExpectations(t)
}

func TestWithSession_ReusesCookieToken(t *testing.T) {
	sess := model.Session{ID: uuid.New(), CreatedAt: time.Now()}

	provider := new(MockSessionProvider)
	provider.On("EnsureSession", mock.Anything, sess.ID.String()).Return(sess, false, nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sess.ID.String()})
	rec := httptest.NewRecorder()
	WithSession(provider, time.Hour, zerolog.Nop())(next).ServeHTTP(rec, req)

	// An existing session must not be re-issued.
	assert.Empty(t, rec.Result().Cookies())
	provider.AssertExpectations(t)
}

func TestWithSession_ProviderDown(t *testing.T) {
	provider := new(MockSessionProvider)
	provider.On("EnsureSession", mock.Anything, "").
		Return(model.Session{}, false, model.ErrAuthUnavailable)

	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	WithSession(provider, time.Hour, zerolog.Nop())(next).ServeHTTP(rec, req)

	// The request still goes through, just without a session.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, ok, "no session must be attached when the provider is down")
	assert.Empty(t, rec.Result().Cookies())
}

func TestSessionFromContext_Missing(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	CORS("http://localhost:3000")(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_Preflight(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight requests must not reach the handler")
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	rec := httptest.NewRecorder()
	CORS("http://localhost:3000")(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecovery(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	Recovery(zerolog.Nop())(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "internal server error"}`, rec.Body.String())
}

func TestLogging_PreservesStatus(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	Logging(zerolog.Nop())(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
