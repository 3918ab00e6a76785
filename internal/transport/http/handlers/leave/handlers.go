package leavehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/leave"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type LeaveService interface {
	Submit(ctx context.Context, userID string, start, end time.Time, reason string) (leave.Request, error)
	Approve(ctx context.Context, id string) (leave.Request, error)
	Reject(ctx context.Context, id string) (leave.Request, error)
	ListOwn(ctx context.Context, userID string, limit, offset int) ([]leave.Request, error)
	ListAll(ctx context.Context, limit, offset int) ([]leave.Request, error)
}

type Handler struct {
	Leave LeaveService
}

func NewHandler(svc LeaveService) *Handler {
	return &Handler{Leave: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleEmployee, auth.RoleAdmin)).Post("/", h.handleSubmit)
		r.With(middleware.RequireRole(auth.RoleEmployee, auth.RoleAdmin)).Get("/", h.handleListOwn)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/all", h.handleListAll)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/{requestID}/approve", h.handleApprove)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/{requestID}/reject", h.handleReject)
	})
}

type submitRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	v.Required("reason", payload.Reason, "reason is required")
	if v.Reject(w, requestID) {
		return
	}

	request, err := h.Leave.Submit(r.Context(), user.UserID, start, end, payload.Reason)
	switch {
	case errors.Is(err, leave.ErrInvalidRange):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "endDate", Reason: "must be on or after startDate"}})
	case errors.Is(err, leave.ErrNoProfile):
		api.Fail(w, http.StatusNotFound, "not_found", "no employee profile", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to submit leave request", requestID)
	default:
		api.Created(w, request, requestID)
	}
}

func (h *Handler) handleListOwn(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	requests, err := h.Leave.ListOwn(r.Context(), user.UserID, page.Limit, page.Offset)
	if errors.Is(err, leave.ErrNoProfile) {
		api.Success(w, map[string]any{"requests": []leave.Request{}}, requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to list leave requests", requestID)
		return
	}
	api.Success(w, map[string]any{"requests": requests}, requestID)
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)

	requests, err := h.Leave.ListAll(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to list leave requests", requestID)
		return
	}
	api.Success(w, map[string]any{"requests": requests}, requestID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Leave.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Leave.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id string) (leave.Request, error)) {
	requestID := middleware.GetRequestID(r.Context())

	request, err := fn(r.Context(), chi.URLParam(r, "requestID"))
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
	case errors.Is(err, leave.ErrAlreadyDecided):
		api.Fail(w, http.StatusConflict, "invalid_state", "leave request already decided", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to decide leave request", requestID)
	default:
		api.Success(w, request, requestID)
	}
}
