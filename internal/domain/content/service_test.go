package content

import (
	"context"
	"strings"
	"testing"
)

type fakeStore struct {
	services []ServiceItem
	messages []ContactMessage
}

func (f *fakeStore) ListServices(context.Context) ([]ServiceItem, error) { return f.services, nil }

func (f *fakeStore) GetService(_ context.Context, id string) (ServiceItem, error) {
	for _, item := range f.services {
		if item.ID == id {
			return item, nil
		}
	}
	return ServiceItem{}, ErrNotFound
}

func (f *fakeStore) CreateService(_ context.Context, item ServiceItem) (string, error) {
	item.ID = "svc-1"
	f.services = append(f.services, item)
	return item.ID, nil
}

func (f *fakeStore) UpdateService(_ context.Context, item ServiceItem) error {
	for i := range f.services {
		if f.services[i].ID == item.ID {
			f.services[i] = item
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) DeleteService(_ context.Context, id string) error {
	for i := range f.services {
		if f.services[i].ID == id {
			f.services = append(f.services[:i], f.services[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) CreateContactMessage(_ context.Context, msg ContactMessage) (string, error) {
	msg.ID = "msg-1"
	f.messages = append(f.messages, msg)
	return msg.ID, nil
}

func (f *fakeStore) ListContactMessages(context.Context) ([]ContactMessage, error) {
	return f.messages, nil
}

func TestSubmitContactValidation(t *testing.T) {
	tests := []struct {
		name    string
		msg     ContactMessage
		wantErr bool
	}{
		{
			name: "valid",
			msg:  ContactMessage{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello there"},
		},
		{
			name:    "missing name",
			msg:     ContactMessage{Email: "ada@example.com", Message: "Hello"},
			wantErr: true,
		},
		{
			name:    "missing email",
			msg:     ContactMessage{Name: "Ada", Message: "Hello"},
			wantErr: true,
		},
		{
			name:    "bad email",
			msg:     ContactMessage{Name: "Ada", Email: "not-an-address", Message: "Hello"},
			wantErr: true,
		},
		{
			name:    "whitespace only message",
			msg:     ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "   "},
			wantErr: true,
		},
		{
			name:    "oversized message",
			msg:     ContactMessage{Name: "Ada", Email: "ada@example.com", Message: strings.Repeat("x", 5001)},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(&fakeStore{})
			_, err := svc.SubmitContact(context.Background(), tc.msg)
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateServiceRequiresTitle(t *testing.T) {
	svc := NewService(&fakeStore{})
	if _, err := svc.CreateService(context.Background(), ServiceItem{Title: "  "}); err == nil {
		t.Fatal("expected error for blank title")
	}
	item, err := svc.CreateService(context.Background(), ServiceItem{Title: "Payroll", Description: "Payroll processing"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.ID == "" {
		t.Fatal("expected assigned id")
	}
}
