package content

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidMessage = errors.New("content: invalid contact message")

type StoreAPI interface {
	ListServices(ctx context.Context) ([]ServiceItem, error)
	GetService(ctx context.Context, id string) (ServiceItem, error)
	CreateService(ctx context.Context, item ServiceItem) (string, error)
	UpdateService(ctx context.Context, item ServiceItem) error
	DeleteService(ctx context.Context, id string) error
	CreateContactMessage(ctx context.Context, msg ContactMessage) (string, error)
	ListContactMessages(ctx context.Context) ([]ContactMessage, error)
}

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) ListServices(ctx context.Context) ([]ServiceItem, error) {
	return s.Store.ListServices(ctx)
}

func (s *Service) CreateService(ctx context.Context, item ServiceItem) (ServiceItem, error) {
	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" {
		return ServiceItem{}, ErrInvalidMessage
	}
	id, err := s.Store.CreateService(ctx, item)
	if err != nil {
		return ServiceItem{}, err
	}
	item.ID = id
	return item, nil
}

func (s *Service) UpdateService(ctx context.Context, item ServiceItem) error {
	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" {
		return ErrInvalidMessage
	}
	return s.Store.UpdateService(ctx, item)
}

func (s *Service) DeleteService(ctx context.Context, id string) error {
	return s.Store.DeleteService(ctx, id)
}

// SubmitContact validates and stores a public contact form submission.
func (s *Service) SubmitContact(ctx context.Context, msg ContactMessage) (string, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)

	switch {
	case msg.Name == "" || msg.Email == "" || msg.Message == "":
		return "", ErrInvalidMessage
	case !strings.Contains(msg.Email, "@"):
		return "", ErrInvalidMessage
	case len(msg.Message) > 5000:
		return "", ErrInvalidMessage
	}
	return s.Store.CreateContactMessage(ctx, msg)
}

func (s *Service) ListContactMessages(ctx context.Context) ([]ContactMessage, error) {
	return s.Store.ListContactMessages(ctx)
}
