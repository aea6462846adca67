package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agoradata/agora-auth/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) logout(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestLogout_Success(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "alice@example.com", "CorrectHorse1!", true)

	token, err := env.sessions.Issue(context.Background(), user.ID, domain.RequestMeta{IP: "203.0.113.7"})
	require.NoError(t, err)

	rec := env.logout(t, "Bearer "+token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The session is gone; the same token is refused from now on.
	_, err = env.sessions.Validate(context.Background(), token)
	require.Error(t, err)

	rec = env.logout(t, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_MissingOrMalformedHeader(t *testing.T) {
	env := newTestEnv(t)

	for _, header := range []string{"", "Bearer", "Basic dXNlcjpwYXNz", "token-without-scheme"} {
		rec := env.logout(t, header)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "invalid_token", resp.Error)
	}
}

func TestLogout_GarbageToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.logout(t, "Bearer not-a-real-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
