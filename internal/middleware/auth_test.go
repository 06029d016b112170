package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/taskloop/taskloop/internal/auth"
	"github.com/taskloop/taskloop/internal/request"
	"go.uber.org/zap"
)

var testSecret = []byte("s3cr3t-32-bytes-minimum-xxxxxxx!")

const testNow = int64(1700000100)

func newTestGate() *auth.Gate {
	return auth.NewGate(testSecret, auth.Policy{
		Issuer:    "todo-app",
		Audience:  "todo-api",
		ClockSkew: 10 * time.Second,
	}, auth.WithClock(func() time.Time { return time.Unix(testNow, 0) }))
}

func issueTestToken(t *testing.T, issuedAt int64, ttl time.Duration) string {
	t.Helper()
	issuer := auth.NewIssuer(testSecret, "todo-app", "todo-api", ttl,
		auth.WithIssuerClock(func() time.Time { return time.Unix(issuedAt, 0) }))
	token, err := issuer.Issue("user123", "user@example.com")
	if err != nil {
		t.Fatalf("failed to issue test token: %v", err)
	}
	return token
}

func TestAuth_Middleware(t *testing.T) {
	t.Parallel()

	validToken := issueTestToken(t, testNow-60, time.Hour)
	expiredToken := issueTestToken(t, testNow-7300, time.Hour)
	wrongIssuer := func() string {
		issuer := auth.NewIssuer(testSecret, "other-app", "todo-api", time.Hour,
			auth.WithIssuerClock(func() time.Time { return time.Unix(testNow-60, 0) }))
		tok, err := issuer.Issue("user123", "")
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		return tok
	}()

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid bearer token passes",
			header:     "Bearer " + validToken,
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header rejected",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "non-bearer scheme rejected",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bearer with empty token rejected",
			header:     "Bearer ",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token rejected",
			header:     "Bearer not.a.jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token rejected",
			header:     "Bearer " + expiredToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "foreign issuer rejected",
			header:     "Bearer " + wrongIssuer,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nextCalled := false
			var gotIdentity auth.Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotIdentity, _ = request.IdentityFromContext(r)
				w.WriteHeader(http.StatusOK)
			})

			handler := Auth(newTestGate(), zap.NewNop())(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/user123/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if nextCalled != tt.wantNext {
				t.Errorf("next called = %v, want %v", nextCalled, tt.wantNext)
			}
			if tt.wantNext && gotIdentity.Subject != "user123" {
				t.Errorf("identity subject = %q, want user123", gotIdentity.Subject)
			}
		})
	}
}

// TestAuth_GenericFailureBody verifies that every authentication failure
// produces the same response body, so the reason for rejection is not
// observable by the client.
func TestAuth_GenericFailureBody(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run on failed authentication")
	})
	handler := Auth(newTestGate(), zap.NewNop())(next)

	expiredToken := issueTestToken(t, testNow-7300, time.Hour)

	headers := []string{
		"",
		"Bearer not.a.jwt",
		"Bearer " + expiredToken,
	}

	var bodies []string
	for _, header := range headers {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/user123/tasks", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("response body is not JSON: %v", err)
		}
		// Timestamps differ between responses; compare the rest.
		delete(body, "timestamp")
		normalized, _ := json.Marshal(body)
		bodies = append(bodies, string(normalized))
	}

	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("failure bodies differ:\n%s\n%s", bodies[0], bodies[i])
		}
	}
	if !strings.Contains(bodies[0], "Unauthorized") {
		t.Errorf("unexpected failure body: %s", bodies[0])
	}
}
