package employee

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hrportal/internal/domain/auth"
)

// Profiles created implicitly for employee accounts that have none yet.
const (
	defaultDepartment = "Unassigned"
	defaultPosition   = "Employee"
)

type StoreAPI interface {
	Get(ctx context.Context, id string) (Profile, error)
	GetByUserID(ctx context.Context, userID string) (Profile, error)
	GetByEmail(ctx context.Context, email string) (Profile, error)
	List(ctx context.Context, limit, offset int) ([]Profile, error)
	Create(ctx context.Context, userID string, p Profile) (string, error)
	Update(ctx context.Context, id string, p Profile) error
	Patch(ctx context.Context, id string, p Profile) error
	Delete(ctx context.Context, id string) error
	AllocateNumber(ctx context.Context, userID, department string, at time.Time) (string, error)
}

type AccountCreator interface {
	CreateAccount(ctx context.Context, acc auth.Account, passwordHash string) (string, error)
}

type Service struct {
	Store    StoreAPI
	Accounts AccountCreator
	Now      func() time.Time
}

func NewService(store StoreAPI, accounts AccountCreator) *Service {
	return &Service{Store: store, Accounts: accounts, Now: time.Now}
}

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	return s.Store.GetByUserID(ctx, userID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Profile, error) {
	return s.Store.List(ctx, limit, offset)
}

func (s *Service) Update(ctx context.Context, id string, p Profile) error {
	return s.Store.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}

// EnsureProfile returns the user's profile, creating a stub one (and
// allocating an employee number) on first access.
func (s *Service) EnsureProfile(ctx context.Context, userID, firstName, lastName string) (Profile, error) {
	profile, err := s.Store.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}

	stub := Profile{
		FirstName:  firstName,
		LastName:   lastName,
		Position:   defaultPosition,
		Department: defaultDepartment,
	}
	if _, err := s.Store.Create(ctx, userID, stub); err != nil {
		return Profile{}, err
	}
	if _, err := s.Store.AllocateNumber(ctx, userID, stub.Department, s.Now()); err != nil {
		slog.Warn("employee number allocation failed", "userId", userID, "err", err)
	}
	return s.Store.GetByUserID(ctx, userID)
}

type ProvisionInput struct {
	Email      string
	FirstName  string
	LastName   string
	Position   string
	Department string
	Phone      string
	Address    string
}

// Provision creates an employee account with a generated credential, its
// profile, and an employee number. The plaintext credential is returned once
// so the caller can deliver it; only the hash is stored.
func (s *Service) Provision(ctx context.Context, in ProvisionInput) (Profile, string, error) {
	password, err := auth.GeneratePassword(12)
	if err != nil {
		return Profile{}, "", err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return Profile{}, "", err
	}

	userID, err := s.Accounts.CreateAccount(ctx, auth.Account{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      auth.RoleEmployee,
	}, hash)
	if err != nil {
		return Profile{}, "", err
	}

	if _, err := s.Store.Create(ctx, userID, Profile{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Position:   in.Position,
		Department: in.Department,
		Phone:      in.Phone,
		Address:    in.Address,
	}); err != nil {
		return Profile{}, "", err
	}

	if _, err := s.Store.AllocateNumber(ctx, userID, in.Department, s.Now()); err != nil {
		slog.Warn("employee number allocation failed", "userId", userID, "err", err)
	}

	profile, err := s.Store.GetByUserID(ctx, userID)
	if err != nil {
		return Profile{}, "", err
	}
	return profile, password, nil
}
