package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/retrocade/retrocade/internal/ctxkeys"
	"github.com/retrocade/retrocade/internal/metrics"
	"github.com/retrocade/retrocade/internal/middleware"
	"github.com/retrocade/retrocade/internal/service"
)

const maxLoginBody = 4 << 10

type AuthHandler struct {
	authService *service.AuthService
	metrics     *metrics.Metrics
}

func NewAuthHandler(authService *service.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     m,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, maxLoginBody, &in) {
		return
	}

	token, err := h.authService.Login(in.Username, in.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.countLogin("invalid")
		slog.Warn("admin login failed", "ip", ctxkeys.ClientIP(r.Context()))
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.countLogin("error")
		writeInternal(w, r, "failed to log in", err)
		return
	}

	h.countLogin("success")
	slog.Info("admin logged in", "ip", ctxkeys.ClientIP(r.Context()))
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Verify runs behind RequireAuth, so reaching it means the token is live
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// Logout revokes the bearer token if one is present and always succeeds
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.authService.Logout(middleware.BearerToken(r))
	if err != nil {
		slog.Error("failed to revoke token", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) countLogin(result string) {
	if h.metrics != nil {
		h.metrics.Logins.WithLabelValues(result).Inc()
	}
}
