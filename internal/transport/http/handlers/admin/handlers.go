package adminhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/directory"
	"hrportal/internal/domain/employee"
	"hrportal/internal/domain/report"
	"hrportal/internal/platform/graph"
	"hrportal/internal/platform/jobs"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Syncer interface {
	Sync(ctx context.Context, sendCredentials bool) (directory.Result, error)
}

type JobRunner interface {
	RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error)
	Enqueue(jobType string, run func(context.Context) (any, error))
}

type Mailer interface {
	SendMail(ctx context.Context, to, subject, htmlBody string) error
}

type ProfileFinder interface {
	GetByEmail(ctx context.Context, email string) (employee.Profile, error)
}

type MonthLister interface {
	ListForMonth(ctx context.Context, year int, month time.Month) ([]attendance.MonthRow, error)
}

type Handler struct {
	Sync       Syncer
	Jobs       JobRunner
	Mailer     Mailer
	Profiles   ProfileFinder
	Attendance MonthLister
	Metrics    *metrics.Collector
	LoginURL   string
}

func NewHandler(sync Syncer, jobsSvc JobRunner, mailer Mailer, profiles ProfileFinder, monthly MonthLister, collector *metrics.Collector, loginURL string) *Handler {
	return &Handler{
		Sync:       sync,
		Jobs:       jobsSvc,
		Mailer:     mailer,
		Profiles:   profiles,
		Attendance: monthly,
		Metrics:    collector,
		LoginURL:   loginURL,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleAdmin))
		r.Post("/sync-microsoft-users", h.handleSync)
		r.Post("/send-credentials", h.handleSendCredentials)
		r.Post("/send-email", h.handleSendEmail)
		r.Get("/metrics", h.handleMetrics)
		r.Get("/reports/attendance.xlsx", h.handleAttendanceXLSX)
		r.Get("/reports/attendance.pdf", h.handleAttendancePDF)
	})
}

type syncRequest struct {
	SendCredentials bool `json:"sendCredentials"`
	Async           bool `json:"async"`
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload syncRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
			return
		}
	}

	run := func(ctx context.Context) (any, error) {
		return h.Sync.Sync(ctx, payload.SendCredentials)
	}

	if payload.Async {
		h.Jobs.Enqueue(jobs.JobDirectorySync, run)
		api.WriteJSON(w, http.StatusAccepted, api.Envelope{
			Success:   true,
			Data:      map[string]string{"jobType": jobs.JobDirectorySync, "status": "queued"},
			RequestID: requestID,
		})
		return
	}

	details, err := h.Jobs.RunNow(r.Context(), jobs.JobDirectorySync, run)
	if err != nil {
		var apiErr *graph.APIError
		if errors.As(err, &apiErr) {
			api.Fail(w, http.StatusBadGateway, "external_error", "directory provider unavailable", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal", "sync failed", requestID)
		return
	}
	api.Success(w, details, requestID)
}

type sendCredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleSendCredentials(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if !h.mailAvailable(w, requestID) {
		return
	}

	var payload sendCredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Email("email", payload.Email)
	v.Required("password", payload.Password, "password is required")
	if v.Reject(w, requestID) {
		return
	}

	profile, err := h.Profiles.GetByEmail(r.Context(), payload.Email)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee with that email", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to load employee", requestID)
		return
	}

	body := directory.CredentialsEmail(profile.FullName(), profile.EmployeeNumber, payload.Email, payload.Password, h.LoginURL)
	if err := h.Mailer.SendMail(r.Context(), payload.Email, directory.CredentialsSubject, body); err != nil {
		h.failMail(w, err, requestID)
		return
	}
	api.Success(w, map[string]string{"status": "sent"}, requestID)
}

type sendEmailRequest struct {
	To       string            `json:"to"`
	Subject  string            `json:"subject"`
	Template string            `json:"template"`
	Context  map[string]string `json:"context"`
	Body     string            `json:"body"`
}

func (h *Handler) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if !h.mailAvailable(w, requestID) {
		return
	}

	var payload sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("to", payload.To, "to is required")
	v.Email("to", payload.To)
	v.Required("subject", payload.Subject, "subject is required")
	if payload.Template == "" && payload.Body == "" {
		v.Add("body", "body or template is required")
	}
	if v.Reject(w, requestID) {
		return
	}

	body := payload.Body
	switch payload.Template {
	case "":
	case "employee_credentials":
		body = directory.CredentialsEmail(
			payload.Context["name"],
			payload.Context["employee_id"],
			payload.Context["email"],
			payload.Context["password"],
			h.LoginURL,
		)
	default:
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "template", Reason: "unknown template"}})
		return
	}

	if err := h.Mailer.SendMail(r.Context(), payload.To, payload.Subject, body); err != nil {
		h.failMail(w, err, requestID)
		return
	}
	api.Success(w, map[string]string{"status": "sent"}, requestID)
}

// mailAvailable rejects mail endpoints up front when the Graph
// integration is disabled.
func (h *Handler) mailAvailable(w http.ResponseWriter, requestID string) bool {
	if h.Mailer == nil {
		api.Fail(w, http.StatusBadGateway, "external_error", "mail provider not configured", requestID)
		return false
	}
	return true
}

func (h *Handler) failMail(w http.ResponseWriter, err error, requestID string) {
	var apiErr *graph.APIError
	if errors.As(err, &apiErr) {
		api.Fail(w, http.StatusBadGateway, "external_error", "mail provider unavailable", requestID)
		return
	}
	api.Fail(w, http.StatusInternalServerError, "internal", "failed to send mail", requestID)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if h.Metrics == nil {
		api.Fail(w, http.StatusNotFound, "not_found", "metrics disabled", requestID)
		return
	}
	api.Success(w, h.Metrics.Snapshot(), requestID)
}

func (h *Handler) monthRows(w http.ResponseWriter, r *http.Request) (int, time.Month, []attendance.MonthRow, bool) {
	requestID := middleware.GetRequestID(r.Context())

	year, month, err := shared.ParseMonth(r.URL.Query().Get("month"), time.Now())
	if err != nil {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "month", Reason: "must be in YYYY-MM format"}})
		return 0, 0, nil, false
	}
	rows, err := h.Attendance.ListForMonth(r.Context(), year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to load attendance", requestID)
		return 0, 0, nil, false
	}
	return year, month, rows, true
}

func (h *Handler) handleAttendanceXLSX(w http.ResponseWriter, r *http.Request) {
	year, month, rows, ok := h.monthRows(w, r)
	if !ok {
		return
	}
	data, err := report.AttendanceXLSX(year, month, rows)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to build report", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%d-%02d.xlsx"`, year, int(month)))
	_, _ = w.Write(data)
}

func (h *Handler) handleAttendancePDF(w http.ResponseWriter, r *http.Request) {
	year, month, rows, ok := h.monthRows(w, r)
	if !ok {
		return
	}
	data, err := report.AttendancePDF(year, month, rows)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to build report", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%d-%02d.pdf"`, year, int(month)))
	_, _ = w.Write(data)
}
