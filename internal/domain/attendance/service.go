package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"hrportal/internal/domain/employee"
)

var (
	// ErrNoRecord means no attendance row exists for the day.
	ErrNoRecord = errors.New("no attendance record for today")
	// ErrNotClockedIn means the row exists but time_in was never set.
	ErrNotClockedIn = errors.New("not clocked in")
	ErrNoProfile    = errors.New("employee profile not found")
)

type StoreAPI interface {
	UpsertClockIn(ctx context.Context, employeeID string, day, now time.Time) (Record, error)
	GetForDay(ctx context.Context, employeeID string, day time.Time) (Record, error)
	SetTimeOut(ctx context.Context, recordID string, now time.Time) (Record, error)
	ListForEmployee(ctx context.Context, employeeID string, limit, offset int) ([]Record, error)
	ListAll(ctx context.Context, limit, offset int) ([]Record, error)
}

type ProfileResolver interface {
	GetByUserID(ctx context.Context, userID string) (employee.Profile, error)
}

type Service struct {
	Store    StoreAPI
	Profiles ProfileResolver
	Now      func() time.Time
}

func NewService(store StoreAPI, profiles ProfileResolver) *Service {
	return &Service{Store: store, Profiles: profiles, Now: time.Now}
}

func (s *Service) resolveEmployee(ctx context.Context, userID string) (string, error) {
	profile, err := s.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			return "", ErrNoProfile
		}
		return "", err
	}
	return profile.ID, nil
}

// ClockIn opens today's attendance record. Calling it again on the same day
// is a no-op that returns the existing record.
func (s *Service) ClockIn(ctx context.Context, userID string) (Record, error) {
	employeeID, err := s.resolveEmployee(ctx, userID)
	if err != nil {
		return Record{}, err
	}
	now := s.Now()
	return s.Store.UpsertClockIn(ctx, employeeID, dateOf(now), now)
}

// ClockOut closes today's record. It fails with ErrNoRecord when nothing was
// created today and ErrNotClockedIn when the record has no time_in. Repeat
// calls overwrite time_out.
func (s *Service) ClockOut(ctx context.Context, userID string) (Record, error) {
	employeeID, err := s.resolveEmployee(ctx, userID)
	if err != nil {
		return Record{}, err
	}

	now := s.Now()
	rec, err := s.Store.GetForDay(ctx, employeeID, dateOf(now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNoRecord
		}
		return Record{}, err
	}
	if rec.TimeIn == nil {
		return Record{}, ErrNotClockedIn
	}
	return s.Store.SetTimeOut(ctx, rec.ID, now)
}

// ListOwn returns the acting employee's records, newest date first.
func (s *Service) ListOwn(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	employeeID, err := s.resolveEmployee(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Store.ListForEmployee(ctx, employeeID, limit, offset)
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]Record, error) {
	return s.Store.ListAll(ctx, limit, offset)
}

func dateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
