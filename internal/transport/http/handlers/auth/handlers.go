package authhandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

const tokenTTL = 8 * time.Hour

type Authenticator interface {
	Authenticate(ctx context.Context, in auth.LoginInput) (auth.Account, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, userID, tokenHash string, expires time.Time) error
	SessionValid(ctx context.Context, userID, tokenHash string) (bool, error)
	RotateSession(ctx context.Context, userID, oldHash, newHash string, expires time.Time) error
	RevokeSession(ctx context.Context, userID, tokenHash string) error
	UpdateLastLogin(ctx context.Context, userID string) error
	PasswordHash(ctx context.Context, userID string) (string, error)
	UpdatePassword(ctx context.Context, userID, hash string) error
}

type Handler struct {
	Auth     Authenticator
	Sessions SessionStore
	Secret   string
}

func NewHandler(authSvc Authenticator, sessions SessionStore, secret string) *Handler {
	return &Handler{Auth: authSvc, Sessions: sessions, Secret: secret}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
		r.Post("/refresh", h.handleRefresh)
		r.With(middleware.RequireUser).Post("/change-password", h.handleChangePassword)
	})
}

type loginRequest struct {
	Email          string `json:"email"`
	EmployeeNumber string `json:"employeeNumber"`
	Password       string `json:"password"`
	Role           string `json:"role"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	if payload.Email == "" && payload.EmployeeNumber == "" {
		v.Add("email", "email or employeeNumber is required")
	}
	v.Required("password", payload.Password, "password is required")
	role, err := auth.ParseRole(payload.Role)
	if err != nil {
		v.Add("role", "must be one of admin, employee, guest")
	}
	if v.Reject(w, requestID) {
		return
	}

	account, err := h.Auth.Authenticate(r.Context(), auth.LoginInput{
		Email:          payload.Email,
		EmployeeNumber: payload.EmployeeNumber,
		Password:       payload.Password,
		DeclaredRole:   role,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrRoleMismatch) {
			api.Fail(w, http.StatusBadRequest, "invalid_credentials", "invalid credentials", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal", "login failed", requestID)
		return
	}

	sessionID, err := auth.NewSessionID()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}
	expires := time.Now().Add(tokenTTL)
	if err := h.Sessions.CreateSession(r.Context(), account.ID, auth.HashToken(sessionID), expires); err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to start session", requestID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		UserID:    account.ID,
		Role:      account.Role,
		Name:      account.FirstName + " " + account.LastName,
		SessionID: sessionID,
	}, tokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}

	if err := h.Sessions.UpdateLastLogin(r.Context(), account.ID); err != nil {
		slog.Warn("update last_login failed", "userId", account.ID, "err", err)
	}

	api.Success(w, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":             account.ID,
			"email":          account.Email,
			"employeeNumber": account.EmployeeNumber,
			"role":           string(account.Role),
			"name":           account.FirstName + " " + account.LastName,
		},
	}, requestID)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.GetUser(r.Context()); ok && user.SessionID != "" {
		if err := h.Sessions.RevokeSession(r.Context(), user.UserID, auth.HashToken(user.SessionID)); err != nil {
			slog.Warn("logout session revoke failed", "userId", user.UserID, "err", err)
		}
	}
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	user, ok := middleware.GetUser(r.Context())
	if !ok || user.SessionID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	valid, err := h.Sessions.SessionValid(r.Context(), user.UserID, auth.HashToken(user.SessionID))
	if err != nil || !valid {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "session expired", requestID)
		return
	}

	newSessionID, err := auth.NewSessionID()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to rotate session", requestID)
		return
	}
	expires := time.Now().Add(tokenTTL)
	if err := h.Sessions.RotateSession(r.Context(), user.UserID, auth.HashToken(user.SessionID), auth.HashToken(newSessionID), expires); err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to rotate session", requestID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		UserID:    user.UserID,
		Role:      user.Role,
		Name:      user.Name,
		SessionID: newSessionID,
	}, tokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}
	api.Success(w, map[string]any{"token": token}, requestID)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("currentPassword", payload.CurrentPassword, "currentPassword is required")
	v.Required("newPassword", payload.NewPassword, "newPassword is required")
	if len(payload.NewPassword) > 0 && len(payload.NewPassword) < 8 {
		v.Add("newPassword", "must be at least 8 characters")
	}
	if v.Reject(w, requestID) {
		return
	}

	hash, err := h.Sessions.PasswordHash(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "password change failed", requestID)
		return
	}
	if err := auth.CheckPassword(hash, payload.CurrentPassword); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_credentials", "current password is incorrect", requestID)
		return
	}

	newHash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "password change failed", requestID)
		return
	}
	if err := h.Sessions.UpdatePassword(r.Context(), user.UserID, newHash); err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "password change failed", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "password_changed"}, requestID)
}
