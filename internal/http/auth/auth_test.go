package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/http/auth"
	"github.com/MrJamesThe3rd/invoicer/internal/identity"
)

func serve(t *testing.T, mw *auth.Middleware, req *http.Request) (identity.Identity, int) {
	t.Helper()

	var got identity.Identity

	handler := mw.Identify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = identity.FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return got, rec.Code
}

func TestMiddleware_Headers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(auth.HeaderEmail, "alice@example.com")
	req.Header.Set(auth.HeaderProfile, "acme")

	got, code := serve(t, auth.NewMiddleware(""), req)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "user-alice_example_com-profile-acme-", got.Namespace())
}

func TestMiddleware_Token(t *testing.T) {
	mw := auth.NewMiddleware("s3cret")

	valid, err := mw.Sign(auth.Claims{
		Email: "bob@example.com",
		Name:  "Bob",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	expired, err := mw.Sign(auth.Claims{
		Email: "bob@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	require.NoError(t, err)

	otherKey, err := auth.NewMiddleware("different").Sign(auth.Claims{Email: "bob@example.com"})
	require.NoError(t, err)

	type testCase struct {
		name     string
		header   string
		profile  string
		wantCode int
		wantNS   string
	}

	tests := []testCase{
		{
			name:     "Valid",
			header:   "Bearer " + valid,
			wantCode: http.StatusOK,
			wantNS:   "user-bob_example_com-",
		},
		{
			name:     "ValidWithProfileHeader",
			header:   "Bearer " + valid,
			profile:  "p1",
			wantCode: http.StatusOK,
			wantNS:   "user-bob_example_com-profile-p1-",
		},
		{
			name:     "NoToken",
			wantCode: http.StatusOK,
			wantNS:   "user-anonymous-",
		},
		{
			name:     "Expired",
			header:   "Bearer " + expired,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "WrongKey",
			header:   "Bearer " + otherKey,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "Garbage",
			header:   "Bearer nope",
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			if tt.profile != "" {
				req.Header.Set(auth.HeaderProfile, tt.profile)
			}

			got, code := serve(t, mw, req)

			assert.Equal(t, tt.wantCode, code)

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantNS, got.Namespace())
			}
		})
	}
}

func TestMiddleware_IgnoresHeadersWhenSecretSet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(auth.HeaderEmail, "mallory@example.com")

	got, code := serve(t, auth.NewMiddleware("s3cret"), req)

	assert.Equal(t, http.StatusOK, code)
	assert.False(t, got.Present())
}
