package handler

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wadjakorntonsri/linkshrink/pkg/adapters/repository"
	"github.com/wadjakorntonsri/linkshrink/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/linkshrink/pkg/config"
	"github.com/wadjakorntonsri/linkshrink/pkg/core/services"
)

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{
		JWTSecret: "testservlet",
	}
	mw := NewMiddleware(cfg)

	tests := []struct {
		name           string
		path           string
		cookieName     string
		cookieValue    string
		expectedStatus int
	}{
		{
			name:           "No Cookie - API",
			path:           "/api/v1/links",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "No Cookie - Browser",
			path:           "/dashboard",
			expectedStatus: http.StatusTemporaryRedirect,
		},
		{
			name:           "Invalid Cookie - API",
			path:           "/api/v1/links",
			cookieName:     "auth_token",
			cookieValue:    "invalid",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Secret - API",
			path:           "/api/v1/links",
			cookieName:     "auth_token",
			cookieValue:    generateTestToken(t, "other-secret", time.Now().Add(5*time.Minute)),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Token - API",
			path:           "/api/v1/links",
			cookieName:     "auth_token",
			cookieValue:    generateTestToken(t, cfg.JWTSecret, time.Now().Add(-time.Minute)),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Valid Cookie - API",
			path:           "/api/v1/links",
			cookieName:     "auth_token",
			cookieValue:    generateTestToken(t, cfg.JWTSecret, time.Now().Add(5*time.Minute)),
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.cookieName != "" {
				req.AddCookie(&http.Cookie{Name: tt.cookieName, Value: tt.cookieValue})
			}

			rr := httptest.NewRecorder()
			handler := mw.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if email, ok := UserEmail(r.Context()); !ok || email != "test@example.com" {
					t.Errorf("UserEmail() = %q, %v", email, ok)
				}
				w.WriteHeader(http.StatusOK)
			}))

			handler.ServeHTTP(rr, req)

			if status := rr.Code; status != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tt.expectedStatus)
			}
		})
	}
}

func TestRouter_AuthEnabled(t *testing.T) {
	cfg := &config.Config{
		AuthEnabled:    true,
		JWTSecret:      "router-secret",
		GoogleClientID: "client-id",
		FrontendURL:    "/",
	}
	repo := repository.NewCollection(memory.NewStore(), "", quietLogger())
	svc := services.NewLinkService(repo, services.Config{})
	router := NewRouter(cfg, svc, quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("without cookie: got %d want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: generateTestToken(t, cfg.JWTSecret, time.Now().Add(time.Minute))})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("with cookie: got %d want 200", rec.Code)
	}

	// redirects stay public
	req = httptest.NewRequest(http.MethodGet, "/unknown", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Errorf("redirect: got %d want 302", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/google/login", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusTemporaryRedirect {
		t.Errorf("login: got %d want 307", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "https://accounts.google.com/") {
		t.Errorf("login Location = %s", loc)
	}
}

func TestAuthHandler_Callback_State(t *testing.T) {
	h := NewAuthHandler(&config.Config{JWTSecret: "s", FrontendURL: "/"}, quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=abc", nil)
	rec := httptest.NewRecorder()
	h.Callback(rec, req)
	if rec.Code != http.StatusTemporaryRedirect {
		t.Errorf("missing cookie: got %d want 307", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauthstate", Value: "xyz"})
	rec = httptest.NewRecorder()
	h.Callback(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("state mismatch: got %d want 400", rec.Code)
	}
}

func TestAuthHandler_IsAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		email   string
		want    bool
	}{
		{name: "empty allowlist", email: "any@example.com", want: true},
		{name: "listed", allowed: []string{"a@example.com"}, email: "a@example.com", want: true},
		{name: "case insensitive", allowed: []string{"A@Example.com"}, email: "a@example.com", want: true},
		{name: "not listed", allowed: []string{"a@example.com"}, email: "b@example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&config.Config{AllowedEmails: tt.allowed}, quietLogger())
			if got := h.isAllowed(tt.email); got != tt.want {
				t.Errorf("isAllowed(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestAuthHandler_IssueToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "issue-secret"}
	h := NewAuthHandler(cfg, quietLogger())

	token, err := h.issueToken("test@example.com", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("issueToken() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/links", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	rec := httptest.NewRecorder()
	NewMiddleware(cfg).AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("issued token rejected: %d", rec.Code)
	}
}

func TestMiddleware_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	wrapped := Logging(logger)(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, "http request") {
		t.Error("Log message not found")
	}
	if !strings.Contains(out, "method=GET") {
		t.Error("Method not logged")
	}
	if !strings.Contains(out, "status=418") {
		t.Errorf("Status not logged: %s", out)
	}
}

func TestMiddleware_Recovery(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	wrapped := Recovery(slog.New(slog.NewTextHandler(io.Discard, nil)))(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestWithMiddleware_LogsRecoveredPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	wrapped := withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}), logger)

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	out := buf.String()
	if !strings.Contains(out, "panic recovered") {
		t.Error("panic not logged")
	}
	if !strings.Contains(out, "http request") || !strings.Contains(out, "status=500") {
		t.Errorf("request line missing for recovered panic: %s", out)
	}
}

func generateTestToken(t *testing.T, secret string, expirationTime time.Time) string {
	claims := &jwt.RegisteredClaims{
		Subject:   "test@example.com",
		ExpiresAt: jwt.NewNumericDate(expirationTime),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return tokenString
}
