package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/agoradata/agora-auth/internal/auth/domain"
	"github.com/agoradata/agora-auth/internal/auth/service"
	"github.com/agoradata/agora-auth/pkg/httpx"
	"github.com/agoradata/agora-auth/pkg/slogx"
)

// LogoutHandler serves POST /v1/auth/logout. The bearer token's session is
// revoked so the token can no longer be validated.
type LogoutHandler struct {
	SessionService *service.SessionService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token, ok := bearerToken(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{
			Error:       "invalid_token",
			Description: "A bearer token is required.",
		})
		return
	}

	meta := domain.RequestMeta{
		IP:        httpx.ClientIP(r),
		UserAgent: r.UserAgent(),
	}

	if err := h.SessionService.Revoke(ctx, token, meta); err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{
				Error:       "invalid_token",
				Description: "Session is invalid or has expired.",
			})
			return
		}

		log.Error("failed to revoke session", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:       "server_error",
			Description: "Something went wrong. Please try again.",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
