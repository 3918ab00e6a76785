package attendancehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/middleware"
)

type fakeAttendance struct {
	clockInErr  error
	clockOutErr error
	record      attendance.Record
}

func (f *fakeAttendance) ClockIn(context.Context, string) (attendance.Record, error) {
	return f.record, f.clockInErr
}

func (f *fakeAttendance) ClockOut(context.Context, string) (attendance.Record, error) {
	return f.record, f.clockOutErr
}

func (f *fakeAttendance) ListOwn(context.Context, string, int, int) ([]attendance.Record, error) {
	return []attendance.Record{f.record}, nil
}

func (f *fakeAttendance) ListAll(context.Context, int, int) ([]attendance.Record, error) {
	return []attendance.Record{f.record}, nil
}

type fakeStatuses struct {
	updated map[string]attendance.Status
}

func (f *fakeStatuses) UpdateStatus(_ context.Context, recordID string, status attendance.Status) error {
	if f.updated == nil {
		f.updated = map[string]attendance.Status{}
	}
	if recordID == "missing" {
		return pgx.ErrNoRows
	}
	f.updated[recordID] = status
	return nil
}

func request(t *testing.T, router http.Handler, method, path string, role auth.Role, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", Role: role}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func newTestRouter(svc AttendanceService, statuses StatusUpdater) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc, statuses).RegisterRoutes(r)
	return r
}

func TestClockOutErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "no record today", err: attendance.ErrNoRecord, wantCode: http.StatusNotFound},
		{name: "not clocked in", err: attendance.ErrNotClockedIn, wantCode: http.StatusConflict},
		{name: "no profile", err: attendance.ErrNoProfile, wantCode: http.StatusNotFound},
		{name: "ok", err: nil, wantCode: http.StatusOK},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&fakeAttendance{clockOutErr: tc.err}, &fakeStatuses{})
			rec := request(t, router, http.MethodPost, "/attendance/clock-out", auth.RoleEmployee, nil)
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestClockInReturnsRecord(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	router := newTestRouter(&fakeAttendance{record: attendance.Record{
		ID:         "rec-1",
		EmployeeID: "emp-1",
		Date:       now,
		TimeIn:     &now,
		Status:     attendance.StatusPresent,
	}}, &fakeStatuses{})

	rec := request(t, router, http.MethodPost, "/attendance/clock-in", auth.RoleEmployee, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data attendance.Record `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != "rec-1" || envelope.Data.TimeIn == nil {
		t.Fatalf("unexpected record: %+v", envelope.Data)
	}
}

func TestGuestCannotClockIn(t *testing.T) {
	router := newTestRouter(&fakeAttendance{}, &fakeStatuses{})
	rec := request(t, router, http.MethodPost, "/attendance/clock-in", auth.RoleGuest, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for guest, got %d", rec.Code)
	}
}

func TestUpdateStatus(t *testing.T) {
	statuses := &fakeStatuses{}
	router := newTestRouter(&fakeAttendance{}, statuses)

	rec := request(t, router, http.MethodPut, "/admin/attendance/rec-1/status", auth.RoleAdmin, map[string]string{"status": "late"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if statuses.updated["rec-1"] != attendance.StatusLate {
		t.Fatalf("status not applied: %+v", statuses.updated)
	}

	rec = request(t, router, http.MethodPut, "/admin/attendance/rec-1/status", auth.RoleAdmin, map[string]string{"status": "vacationing"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}

	rec = request(t, router, http.MethodPut, "/admin/attendance/missing/status", auth.RoleAdmin, map[string]string{"status": "late"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing record, got %d", rec.Code)
	}

	rec = request(t, router, http.MethodPut, "/admin/attendance/rec-1/status", auth.RoleEmployee, map[string]string{"status": "late"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employee, got %d", rec.Code)
	}
}
