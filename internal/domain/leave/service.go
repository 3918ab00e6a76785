package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"hrportal/internal/domain/employee"
)

var (
	ErrNotFound       = errors.New("leave request not found")
	ErrAlreadyDecided = errors.New("leave request already decided")
	ErrInvalidRange   = errors.New("end date before start date")
	ErrNoProfile      = errors.New("employee profile not found")
)

type StoreAPI interface {
	Create(ctx context.Context, employeeID string, start, end time.Time, reason string) (Request, error)
	Get(ctx context.Context, id string) (Request, error)
	ListForEmployee(ctx context.Context, employeeID string, limit, offset int) ([]Request, error)
	ListAll(ctx context.Context, limit, offset int) ([]Request, error)
	Decide(ctx context.Context, id string, status Status) (Request, error)
}

type ProfileResolver interface {
	GetByUserID(ctx context.Context, userID string) (employee.Profile, error)
}

type Service struct {
	Store    StoreAPI
	Profiles ProfileResolver
}

func NewService(store StoreAPI, profiles ProfileResolver) *Service {
	return &Service{Store: store, Profiles: profiles}
}

// Submit files a request for the acting employee. Requests always start
// pending; overlaps with existing requests are not checked.
func (s *Service) Submit(ctx context.Context, userID string, start, end time.Time, reason string) (Request, error) {
	if end.Before(start) {
		return Request{}, ErrInvalidRange
	}
	profile, err := s.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			return Request{}, ErrNoProfile
		}
		return Request{}, err
	}
	return s.Store.Create(ctx, profile.ID, start, end, reason)
}

func (s *Service) Approve(ctx context.Context, id string) (Request, error) {
	return s.decide(ctx, id, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, id string) (Request, error) {
	return s.decide(ctx, id, StatusRejected)
}

func (s *Service) decide(ctx context.Context, id string, status Status) (Request, error) {
	req, err := s.Store.Decide(ctx, id, status)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, errNotPending) {
		return Request{}, err
	}
	// Zero rows either means the request does not exist or it already
	// reached a terminal state.
	if _, getErr := s.Store.Get(ctx, id); getErr != nil {
		if errors.Is(getErr, pgx.ErrNoRows) {
			return Request{}, ErrNotFound
		}
		return Request{}, getErr
	}
	return Request{}, ErrAlreadyDecided
}

func (s *Service) ListOwn(ctx context.Context, userID string, limit, offset int) ([]Request, error) {
	profile, err := s.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			return nil, ErrNoProfile
		}
		return nil, err
	}
	return s.Store.ListForEmployee(ctx, profile.ID, limit, offset)
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]Request, error) {
	return s.Store.ListAll(ctx, limit, offset)
}
