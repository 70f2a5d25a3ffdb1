package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T, password string) *Service {
	t.Helper()
	tokens := NewTokenService([]byte("test-secret-for-auth-tests"), time.Hour)
	hash := ""
	if password != "" {
		var err error
		hash, err = HashPassword(password)
		if err != nil {
			t.Fatalf("HashPassword: %v", err)
		}
	}
	return NewService(hash, tokens)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, "correct-horse")

	token, err := svc.Login("correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := svc.Tokens().ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.Subject != "operator" {
		t.Errorf("Subject = %q, want operator", claims.Subject)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t, "correct-horse")
	if _, err := svc.Login("battery-staple"); err != ErrInvalidCredentials {
		t.Fatalf("Login with wrong password: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), -time.Minute)
	token, err := tokens.IssueAccessToken()
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, err := tokens.ValidateAccessToken(token); err == nil {
		t.Fatal("expired token validated successfully")
	}
}

func TestMiddlewareDisabled(t *testing.T) {
	svc := newTestService(t, "")
	mw := Middleware(svc)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/system", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("disabled auth blocked request: status %d", rec.Code)
	}
}

func TestMiddlewareEnforced(t *testing.T) {
	svc := newTestService(t, "secret")
	mw := Middleware(svc)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no token on api path", "/api/v1/system", "", http.StatusUnauthorized},
		{"garbage token", "/api/v1/system", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"public login path", "/api/v1/auth/login", "", http.StatusOK},
		{"non-api path", "/healthz", "", http.StatusOK},
		{"websocket path", "/api/v1/ws", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}

	t.Run("valid token", func(t *testing.T) {
		token, err := svc.Login("secret")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/system", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("valid token rejected: status %d", rec.Code)
		}
	})
}

func TestLoginHandler(t *testing.T) {
	svc := newTestService(t, "hunter2")
	h := NewHandler(svc, zaptest.NewLogger(t))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"password":"hunter2"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken == "" || resp.ExpiresIn != 3600 {
		t.Errorf("unexpected response: %+v", resp)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"password":"wrong"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("error Content-Type = %q", ct)
	}
}

func TestWSTokenValidator(t *testing.T) {
	if v := WSTokenValidator(newTestService(t, "")); v != nil {
		t.Fatal("validator should be nil when auth is disabled")
	}

	svc := newTestService(t, "pw")
	v := WSTokenValidator(svc)
	if v == nil {
		t.Fatal("validator is nil with auth enabled")
	}
	token, _ := svc.Login("pw")
	if err := v(token); err != nil {
		t.Errorf("valid token rejected: %v", err)
	}
	if err := v("bogus"); err == nil {
		t.Error("bogus token accepted")
	}
}
