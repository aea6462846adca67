package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/agoradata/agora-auth/internal/auth/domain"
	"github.com/agoradata/agora-auth/internal/auth/service"
	"github.com/agoradata/agora-auth/pkg/httpx"
	"github.com/agoradata/agora-auth/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login.
type LoginHandler struct {
	AuthService    *service.AuthService
	SessionService *service.SessionService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  loginUserInfo `json:"user"`
}

type loginUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:       "invalid_request",
			Description: "Request body must be valid JSON.",
		})
		return
	}

	meta := domain.RequestMeta{
		IP:        httpx.ClientIP(r),
		UserAgent: r.UserAgent(),
	}

	result, err := h.AuthService.Authenticate(ctx, req.Email, req.Password, meta)
	if err != nil {
		writeAuthError(w, log, err)
		return
	}

	token, err := h.SessionService.Issue(ctx, result.UserID, meta)
	if err != nil {
		log.Error("failed to issue session", "error", err, "user_id", result.UserID)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:       "server_error",
			Description: "Something went wrong. Please try again.",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User: loginUserInfo{
			ID:    result.UserID,
			Email: result.Email,
			Name:  result.Name,
		},
	})
}

// writeAuthError maps engine rejections onto HTTP responses. Every message
// is generic: the response never discloses whether the account exists or
// how many attempts remain. Locked and rate-limited rejections carry a
// Retry-After hint only.
func writeAuthError(w http.ResponseWriter, log *slog.Logger, err error) {
	var retry *service.RetryAfterError
	if errors.As(err, &retry) {
		seconds := max(int(retry.RetryAfter.Seconds()), 1)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:       "invalid_request",
			Description: "Email and password are required.",
		})
	case errors.Is(err, service.ErrRateLimited):
		httpx.WriteJSON(w, http.StatusTooManyRequests, errorResponse{
			Error:       "rate_limited",
			Description: "Too many login attempts. Please try again later.",
		})
	case errors.Is(err, service.ErrAccountLocked):
		httpx.WriteJSON(w, http.StatusLocked, errorResponse{
			Error:       "account_locked",
			Description: "Account is temporarily locked. Please try again later.",
		})
	case errors.Is(err, service.ErrAccountInactive):
		httpx.WriteJSON(w, http.StatusForbidden, errorResponse{
			Error:       "account_inactive",
			Description: "Account is inactive. Please contact support.",
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{
			Error:       "invalid_credentials",
			Description: "Invalid email or password.",
		})
	default:
		log.Error("login failed", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:       "server_error",
			Description: "Something went wrong. Please try again.",
		})
	}
}
