package employeeshandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/directory"
	"hrportal/internal/domain/employee"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type EmployeeService interface {
	Get(ctx context.Context, id string) (employee.Profile, error)
	GetByUserID(ctx context.Context, userID string) (employee.Profile, error)
	List(ctx context.Context, limit, offset int) ([]employee.Profile, error)
	Update(ctx context.Context, id string, p employee.Profile) error
	Delete(ctx context.Context, id string) error
	EnsureProfile(ctx context.Context, userID, firstName, lastName string) (employee.Profile, error)
	Provision(ctx context.Context, in employee.ProvisionInput) (employee.Profile, string, error)
}

type Mailer interface {
	SendMail(ctx context.Context, to, subject, htmlBody string) error
}

type Handler struct {
	Employees EmployeeService
	Mailer    Mailer
	LoginURL  string
}

func NewHandler(employees EmployeeService, mailer Mailer, loginURL string) *Handler {
	return &Handler{Employees: employees, Mailer: mailer, LoginURL: loginURL}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employee/profile", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleEmployee, auth.RoleAdmin))
		r.Get("/", h.handleOwnProfile)
		r.Put("/", h.handleUpdateOwnProfile)
	})
	r.Route("/admin/employees", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleAdmin))
		r.Get("/", h.handleList)
		r.Post("/", h.handleProvision)
		r.Get("/{employeeID}", h.handleGet)
		r.Put("/{employeeID}", h.handleUpdate)
		r.Delete("/{employeeID}", h.handleDelete)
	})
}

// handleOwnProfile get-or-creates the caller's profile so a freshly
// registered employee always sees one.
func (h *Handler) handleOwnProfile(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	profile, err := h.Employees.EnsureProfile(r.Context(), user.UserID, "", "")
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to load profile", requestID)
		return
	}
	api.Success(w, profile, requestID)
}

type profileRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

func (h *Handler) handleUpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload profileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	profile, err := h.Employees.GetByUserID(r.Context(), user.UserID)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "profile not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to load profile", requestID)
		return
	}

	// Employees may change contact details, not their position or
	// department.
	profile.FirstName = payload.FirstName
	profile.LastName = payload.LastName
	profile.Phone = payload.Phone
	profile.Address = payload.Address
	if err := h.Employees.Update(r.Context(), profile.ID, profile); err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to update profile", requestID)
		return
	}
	api.Success(w, profile, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	profiles, err := h.Employees.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to list employees", requestID)
		return
	}
	api.Success(w, map[string]any{"employees": profiles}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	profile, err := h.Employees.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to load employee", requestID)
		return
	}
	api.Success(w, profile, requestID)
}

type provisionRequest struct {
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Position        string `json:"position"`
	Department      string `json:"department"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	SendCredentials bool   `json:"sendCredentials"`
}

func (h *Handler) handleProvision(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload provisionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Email("email", payload.Email)
	v.Required("firstName", payload.FirstName, "firstName is required")
	if v.Reject(w, requestID) {
		return
	}

	profile, password, err := h.Employees.Provision(r.Context(), employee.ProvisionInput{
		Email:      payload.Email,
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
		Position:   payload.Position,
		Department: payload.Department,
		Phone:      payload.Phone,
		Address:    payload.Address,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to create employee", requestID)
		return
	}

	if payload.SendCredentials && h.Mailer != nil {
		body := directory.CredentialsEmail(profile.FullName(), profile.EmployeeNumber, payload.Email, password, h.LoginURL)
		if err := h.Mailer.SendMail(r.Context(), payload.Email, directory.CredentialsSubject, body); err != nil {
			slog.Warn("credentials email failed", "email", payload.Email, "err", err)
		}
	}

	api.Created(w, map[string]any{
		"employee": profile,
		"password": password,
	}, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload profileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	id := chi.URLParam(r, "employeeID")
	profile, err := h.Employees.Get(r.Context(), id)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to load employee", requestID)
		return
	}

	profile.FirstName = payload.FirstName
	profile.LastName = payload.LastName
	profile.Position = payload.Position
	profile.Department = payload.Department
	profile.Phone = payload.Phone
	profile.Address = payload.Address
	if err := h.Employees.Update(r.Context(), id, profile); err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to update employee", requestID)
		return
	}
	api.Success(w, profile, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	err := h.Employees.Delete(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to delete employee", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, requestID)
}
