package contenthandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/content"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type ContentService interface {
	ListServices(ctx context.Context) ([]content.ServiceItem, error)
	CreateService(ctx context.Context, item content.ServiceItem) (content.ServiceItem, error)
	UpdateService(ctx context.Context, item content.ServiceItem) error
	DeleteService(ctx context.Context, id string) error
	SubmitContact(ctx context.Context, msg content.ContactMessage) (string, error)
	ListContactMessages(ctx context.Context) ([]content.ContactMessage, error)
}

type Handler struct {
	Content ContentService
}

func NewHandler(svc ContentService) *Handler {
	return &Handler{Content: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/services", h.handleListServices)
	r.Post("/contact", h.handleSubmitContact)

	r.Route("/admin/services", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleAdmin))
		r.Post("/", h.handleCreateService)
		r.Put("/{serviceID}", h.handleUpdateService)
		r.Delete("/{serviceID}", h.handleDeleteService)
	})
	r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/admin/contact-messages", h.handleListContactMessages)
}

func (h *Handler) handleListServices(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	items, err := h.Content.ListServices(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to list services", requestID)
		return
	}
	api.Success(w, map[string]any{"services": items}, requestID)
}

type serviceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (h *Handler) handleCreateService(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	item, err := h.Content.CreateService(r.Context(), content.ServiceItem{
		Title:       payload.Title,
		Description: payload.Description,
		Icon:        payload.Icon,
	})
	if errors.Is(err, content.ErrInvalidMessage) {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "title", Reason: "title is required"}})
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to create service", requestID)
		return
	}
	api.Created(w, item, requestID)
}

func (h *Handler) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	err := h.Content.UpdateService(r.Context(), content.ServiceItem{
		ID:          chi.URLParam(r, "serviceID"),
		Title:       payload.Title,
		Description: payload.Description,
		Icon:        payload.Icon,
	})
	switch {
	case errors.Is(err, content.ErrInvalidMessage):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "title", Reason: "title is required"}})
	case errors.Is(err, content.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "service not found", requestID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to update service", requestID)
	default:
		api.Success(w, map[string]string{"status": "updated"}, requestID)
	}
}

func (h *Handler) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	err := h.Content.DeleteService(r.Context(), chi.URLParam(r, "serviceID"))
	if errors.Is(err, content.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "service not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to delete service", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, requestID)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *Handler) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload contactRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("email", payload.Email, "email is required")
	v.Email("email", payload.Email)
	v.Required("message", payload.Message, "message is required")
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Content.SubmitContact(r.Context(), content.ContactMessage{
		Name:    payload.Name,
		Email:   payload.Email,
		Subject: payload.Subject,
		Message: payload.Message,
	})
	if errors.Is(err, content.ErrInvalidMessage) {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "message", Reason: "message is invalid"}})
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to submit message", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleListContactMessages(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	messages, err := h.Content.ListContactMessages(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "failed to list messages", requestID)
		return
	}
	api.Success(w, map[string]any{"messages": messages}, requestID)
}
