package attendancehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type AttendanceService interface {
	ClockIn(ctx context.Context, userID string) (attendance.Record, error)
	ClockOut(ctx context.Context, userID string) (attendance.Record, error)
	ListOwn(ctx context.Context, userID string, limit, offset int) ([]attendance.Record, error)
	ListAll(ctx context.Context, limit, offset int) ([]attendance.Record, error)
}

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, recordID string, status attendance.Status) error
}

type Handler struct {
	Attendance AttendanceService
	Statuses   StatusUpdater
}

func NewHandler(svc AttendanceService, statuses StatusUpdater) *Handler {
	return &Handler{Attendance: svc, Statuses: statuses}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleEmployee, auth.RoleAdmin))
		r.Post("/clock-in", h.handleClockIn)
		r.Post("/clock-out", h.handleClockOut)
		r.Get("/", h.handleListOwn)
	})
	r.Route("/admin/attendance", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleAdmin))
		r.Get("/", h.handleListAll)
		r.Put("/{recordID}/status", h.handleUpdateStatus)
	})
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	record, err := h.Attendance.ClockIn(r.Context(), user.UserID)
	if errors.Is(err, attendance.ErrNoProfile) {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee profile", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "clock-in failed", requestID)
		return
	}
	api.Success(w, record, requestID)
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	record, err := h.Attendance.ClockOut(r.Context(), user.UserID)
	switch {
	case errors.Is(err, attendance.ErrNoProfile):
		api.Fail(w, http.StatusNotFound, "not_found", "no employee profile", requestID)
	case errors.Is(err, attendance.ErrNoRecord):
		api.Fail(w, http.StatusNotFound, "no_attendance_record", "no attendance record for today", requestID)
	case errors.Is(err, attendance.ErrNotClockedIn):
		api.Fail(w, http.StatusConflict, "invalid_state", "not clocked in today", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "internal", "clock-out failed", requestID)
	default:
		api.Success(w, record, requestID)
	}
}

func (h *Handler) handleListOwn(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	records, err := h.Attendance.ListOwn(r.Context(), user.UserID, page.Limit, page.Offset)
	if errors.Is(err, attendance.ErrNoProfile) {
		api.Success(w, map[string]any{"attendance": []attendance.Record{}}, requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to list attendance", requestID)
		return
	}
	api.Success(w, map[string]any{"attendance": records}, requestID)
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)

	records, err := h.Attendance.ListAll(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to list attendance", requestID)
		return
	}
	api.Success(w, map[string]any{"attendance": records}, requestID)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload statusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	status := attendance.Status(payload.Status)
	if !status.Valid() {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "status", Reason: "must be one of present, absent, late, half_day"}})
		return
	}

	err := h.Statuses.UpdateStatus(r.Context(), chi.URLParam(r, "recordID"), status)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to update status", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, requestID)
}
