package usershandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type AccountStore interface {
	GetAccount(ctx context.Context, id string) (auth.AccountSummary, error)
	ListAccounts(ctx context.Context, limit, offset int) ([]auth.AccountSummary, error)
	CreateAccount(ctx context.Context, acc auth.Account, passwordHash string) (string, error)
	UpdateAccount(ctx context.Context, id string, firstName, lastName string, role auth.Role) error
	DeleteAccount(ctx context.Context, id string) error
}

type Handler struct {
	Accounts AccountStore
}

func NewHandler(accounts AccountStore) *Handler {
	return &Handler{Accounts: accounts}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleAdmin))
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{userID}", h.handleGet)
		r.Put("/{userID}", h.handleUpdate)
		r.Delete("/{userID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	accounts, err := h.Accounts.ListAccounts(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to list users", requestID)
		return
	}
	api.Success(w, map[string]any{"users": accounts}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	account, err := h.Accounts.GetAccount(r.Context(), chi.URLParam(r, "userID"))
	if errors.Is(err, auth.ErrAccountNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to load user", requestID)
		return
	}
	api.Success(w, account, requestID)
}

type createUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Email("email", payload.Email)
	v.Required("password", payload.Password, "password is required")
	role, err := auth.ParseRole(payload.Role)
	if err != nil || role == auth.RoleUnset {
		v.Add("role", "must be one of admin, employee, guest")
	}
	if v.Reject(w, requestID) {
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to create user", requestID)
		return
	}
	id, err := h.Accounts.CreateAccount(r.Context(), auth.Account{
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Role:      role,
	}, hash)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to create user", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

type updateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	role, err := auth.ParseRole(payload.Role)
	if err != nil || role == auth.RoleUnset {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "role", Reason: "must be one of admin, employee, guest"}})
		return
	}

	err = h.Accounts.UpdateAccount(r.Context(), chi.URLParam(r, "userID"), payload.FirstName, payload.LastName, role)
	if errors.Is(err, auth.ErrAccountNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to update user", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	err := h.Accounts.DeleteAccount(r.Context(), chi.URLParam(r, "userID"))
	if errors.Is(err, auth.ErrAccountNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to delete user", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, requestID)
}
