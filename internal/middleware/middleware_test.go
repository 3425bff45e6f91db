package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"melodix/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ TokenValidator = (*services.AuthService)(nil)

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := GetUserID(r)
		role, _ := r.Context().Value(UserRoleKey).(string)
		json.NewEncoder(w).Encode(map[string]string{"user_id": userID, "role": role})
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthentication(t *testing.T) {
	tokens := services.NewAuthService("test-secret", time.Hour, zerolog.Nop())
	handler := Authentication(tokens, zerolog.Nop())(echoIdentity())

	valid, err := tokens.GenerateToken("652f1c2a9b1e8a0012345678", "ada@example.com", "admin")
	require.NoError(t, err)

	foreign, err := services.NewAuthService("other-secret", time.Hour, zerolog.Nop()).
		GenerateToken("652f1c2a9b1e8a0012345678", "ada@example.com", "admin")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, "missing_authorization"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "invalid_authorization"},
		{"bearer without token", "Bearer ", http.StatusUnauthorized, "invalid_authorization"},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, "invalid_token"},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized, "invalid_token"},
		{"valid token", "Bearer " + valid, http.StatusOK, ""},
		{"scheme is case-insensitive", "bearer " + valid, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Error)
				return
			}

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "652f1c2a9b1e8a0012345678", body["user_id"])
			assert.Equal(t, "admin", body["role"])
		})
	}
}

func TestAuthentication_RejectsExpiredToken(t *testing.T) {
	issuer := services.NewAuthService("test-secret", time.Millisecond, zerolog.Nop())
	token, err := issuer.GenerateToken("u1", "a@b.com", "user")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	handler := Authentication(issuer, zerolog.Nop())(echoIdentity())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0, 2)
	handler := limiter.Middleware()(echoIdentity())

	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = rec.Code
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestLogging_PropagatesRequestID(t *testing.T) {
	var seen string
	handler := RequestLogging(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "from-upstream")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "from-upstream", seen)
}

func TestErrorHandling_RecoversPanics(t *testing.T) {
	handler := ErrorHandling(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "internal_error", body.Error)
	assert.NotContains(t, body.Message, "boom")
}

func TestRequestValidation(t *testing.T) {
	handler := RequestValidation()(echoIdentity())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("email=a"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "bodyless POST needs no content type")
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders()(echoIdentity()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
