package contenthandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/content"
	"hrportal/internal/transport/http/middleware"
)

type fakeContent struct {
	services []content.ServiceItem
	messages []content.ContactMessage
}

func (f *fakeContent) ListServices(context.Context) ([]content.ServiceItem, error) {
	return f.services, nil
}

func (f *fakeContent) CreateService(_ context.Context, item content.ServiceItem) (content.ServiceItem, error) {
	if item.Title == "" {
		return content.ServiceItem{}, content.ErrInvalidMessage
	}
	item.ID = "svc-1"
	f.services = append(f.services, item)
	return item, nil
}

func (f *fakeContent) UpdateService(_ context.Context, item content.ServiceItem) error {
	for i := range f.services {
		if f.services[i].ID == item.ID {
			f.services[i] = item
			return nil
		}
	}
	return content.ErrNotFound
}

func (f *fakeContent) DeleteService(_ context.Context, id string) error {
	for i := range f.services {
		if f.services[i].ID == id {
			f.services = append(f.services[:i], f.services[i+1:]...)
			return nil
		}
	}
	return content.ErrNotFound
}

func (f *fakeContent) SubmitContact(_ context.Context, msg content.ContactMessage) (string, error) {
	msg.ID = "msg-1"
	f.messages = append(f.messages, msg)
	return msg.ID, nil
}

func (f *fakeContent) ListContactMessages(context.Context) ([]content.ContactMessage, error) {
	return f.messages, nil
}

func newTestRouter(svc ContentService) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func TestServicesArePublic(t *testing.T) {
	router := newTestRouter(&fakeContent{services: []content.ServiceItem{
		{ID: "svc-1", Title: "Recruitment"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without auth, got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Services []content.ServiceItem `json:"services"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Services) != 1 {
		t.Fatalf("expected 1 service, got %d", len(envelope.Data.Services))
	}
}

func TestContactSubmitValidation(t *testing.T) {
	store := &fakeContent{}
	router := newTestRouter(store)

	post := func(body map[string]string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
		req := httptest.NewRequest(http.MethodPost, "/contact", &buf)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := post(map[string]string{"name": "Ada", "email": "not-an-email", "message": "Hello"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad email, got %d", rec.Code)
	}

	rec = post(map[string]string{"name": "Ada", "email": "ada@example.com", "subject": "Hi", "message": "Hello there"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.messages) != 1 {
		t.Fatalf("expected message stored, got %d", len(store.messages))
	}
}

func TestServiceAdminRoutesRequireAdmin(t *testing.T) {
	router := newTestRouter(&fakeContent{})

	body := bytes.NewBufferString(`{"title":"Payroll"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/services/", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 anonymous, got %d", rec.Code)
	}

	body = bytes.NewBufferString(`{"title":"Payroll"}`)
	req = httptest.NewRequest(http.MethodPost, "/admin/services/", body)
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "a1", Role: auth.RoleAdmin}))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestContactMessagesAdminOnly(t *testing.T) {
	router := newTestRouter(&fakeContent{messages: []content.ContactMessage{{ID: "msg-1"}}})

	req := httptest.NewRequest(http.MethodGet, "/admin/contact-messages", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", Role: auth.RoleEmployee}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employee, got %d", rec.Code)
	}
}
