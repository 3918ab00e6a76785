package directory

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/employee"
	"hrportal/internal/platform/graph"
)

// Result is the aggregate outcome of one sync pass.
type Result struct {
	Found    int `json:"found"`
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Warnings int `json:"warnings"`
	Errored  int `json:"errored"`
}

type Directory interface {
	ListUsers(ctx context.Context) ([]graph.User, error)
}

type Mailer interface {
	SendMail(ctx context.Context, to, subject, htmlBody string) error
}

type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (auth.Account, error)
	CreateAccount(ctx context.Context, acc auth.Account, passwordHash string) (string, error)
	UpdateAccountNames(ctx context.Context, id, firstName, lastName string) error
}

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (employee.Profile, error)
	Create(ctx context.Context, userID string, p employee.Profile) (string, error)
	Patch(ctx context.Context, id string, p employee.Profile) error
	AllocateNumber(ctx context.Context, userID, department string, at time.Time) (string, error)
}

type Service struct {
	Directory Directory
	Mailer    Mailer
	Accounts  AccountStore
	Profiles  ProfileStore
	LoginURL  string
	Now       func() time.Time
}

func NewService(dir Directory, mailer Mailer, accounts AccountStore, profiles ProfileStore, loginURL string) *Service {
	return &Service{
		Directory: dir,
		Mailer:    mailer,
		Accounts:  accounts,
		Profiles:  profiles,
		LoginURL:  loginURL,
		Now:       time.Now,
	}
}

// Sync upserts the external directory listing into the identity and profile
// stores. Only a failed listing aborts the pass; per-record failures are
// logged and counted so one bad record cannot block the rest of the batch.
func (s *Service) Sync(ctx context.Context, sendCredentials bool) (Result, error) {
	if s.Directory == nil {
		return Result{}, &graph.APIError{Op: "list_users", Err: errors.New("directory integration disabled")}
	}
	users, err := s.Directory.ListUsers(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{Found: len(users)}
	for _, user := range users {
		email := user.Mail
		if email == "" {
			email = user.UserPrincipalName
		}
		if email == "" {
			slog.Warn("skipping directory user without email", "displayName", user.DisplayName)
			result.Warnings++
			continue
		}

		account, err := s.Accounts.FindByEmail(ctx, email)
		switch {
		case errors.Is(err, auth.ErrAccountNotFound):
			if err := s.createFromDirectory(ctx, email, user, sendCredentials); err != nil {
				slog.Error("directory sync create failed", "email", email, "err", err)
				result.Errored++
				continue
			}
			result.Created++
		case err != nil:
			slog.Error("directory sync lookup failed", "email", email, "err", err)
			result.Errored++
		default:
			if err := s.updateFromDirectory(ctx, account, user); err != nil {
				slog.Error("directory sync update failed", "email", email, "err", err)
				result.Errored++
				continue
			}
			result.Updated++
		}
	}
	return result, nil
}

func (s *Service) createFromDirectory(ctx context.Context, email string, user graph.User, sendCredentials bool) error {
	password, err := auth.GeneratePassword(12)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	userID, err := s.Accounts.CreateAccount(ctx, auth.Account{
		Email:     email,
		FirstName: user.GivenName,
		LastName:  user.Surname,
		Role:      auth.RoleEmployee,
	}, hash)
	if err != nil {
		return err
	}

	if _, err := s.Profiles.Create(ctx, userID, profileFrom(user)); err != nil {
		return err
	}
	number, err := s.Profiles.AllocateNumber(ctx, userID, user.Department, s.Now())
	if err != nil {
		slog.Warn("employee number allocation failed during sync", "email", email, "err", err)
	}

	if sendCredentials && s.Mailer != nil {
		name := user.GivenName + " " + user.Surname
		body := CredentialsEmail(name, number, email, password, s.LoginURL)
		if err := s.Mailer.SendMail(ctx, email, CredentialsSubject, body); err != nil {
			slog.Warn("credentials email failed", "email", email, "err", err)
		}
	}
	return nil
}

// updateFromDirectory applies "directory wins" for every attribute the
// directory actually carries; blank directory fields leave local values
// alone. The same rule applies on every pass.
func (s *Service) updateFromDirectory(ctx context.Context, account auth.Account, user graph.User) error {
	if err := s.Accounts.UpdateAccountNames(ctx, account.ID, user.GivenName, user.Surname); err != nil {
		return err
	}

	profile, err := s.Profiles.GetByUserID(ctx, account.ID)
	if errors.Is(err, employee.ErrNotFound) {
		if _, err := s.Profiles.Create(ctx, account.ID, profileFrom(user)); err != nil {
			return err
		}
		if _, err := s.Profiles.AllocateNumber(ctx, account.ID, user.Department, s.Now()); err != nil {
			slog.Warn("employee number allocation failed during sync", "email", account.Email, "err", err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	return s.Profiles.Patch(ctx, profile.ID, profileFrom(user))
}

func profileFrom(user graph.User) employee.Profile {
	return employee.Profile{
		FirstName:  user.GivenName,
		LastName:   user.Surname,
		Position:   user.JobTitle,
		Department: user.Department,
		Phone:      user.MobilePhone,
		Address:    user.OfficeLocation,
	}
}
