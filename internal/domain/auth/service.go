package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleMismatch       = errors.New("declared role does not match account")
)

type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByEmployeeNumber(ctx context.Context, number string) (Account, error)
}

type Service struct {
	Accounts AccountFinder
}

func NewService(accounts AccountFinder) *Service {
	return &Service{Accounts: accounts}
}

type LoginInput struct {
	Email          string
	EmployeeNumber string
	Password       string
	DeclaredRole   Role
}

// Authenticate resolves credentials to exactly one account or fails with
// ErrInvalidCredentials. Employees may log in by employee number; everyone
// may log in by email. A declared role is optional: when present it must
// match the stored role unless the account is a superuser claiming admin.
func (s *Service) Authenticate(ctx context.Context, in LoginInput) (Account, error) {
	var (
		account Account
		err     error
	)
	switch {
	case in.EmployeeNumber != "" && (in.DeclaredRole == RoleEmployee || in.DeclaredRole == RoleUnset):
		account, err = s.Accounts.FindByEmployeeNumber(ctx, in.EmployeeNumber)
	case in.Email != "":
		account, err = s.Accounts.FindByEmail(ctx, in.Email)
	default:
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		// Burn a bcrypt comparison so a missing account costs the same
		// as a wrong password.
		_ = CheckPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOa9i1xunQkNDlmr3P1k8MebYBO0y1mhe", in.Password)
		return Account{}, ErrInvalidCredentials
	}

	if err := CheckPassword(account.PasswordHash, in.Password); err != nil {
		return Account{}, ErrInvalidCredentials
	}

	if in.DeclaredRole != RoleUnset && in.DeclaredRole != account.Role {
		if !(in.DeclaredRole == RoleAdmin && account.IsSuperuser) {
			return Account{}, ErrRoleMismatch
		}
	}
	return account, nil
}
