package auth

import (
	"context"
	"errors"
	"testing"
)

type fakeAccounts struct {
	byEmail  map[string]Account
	byNumber map[string]Account
}

func (f *fakeAccounts) FindByEmail(_ context.Context, email string) (Account, error) {
	if acc, ok := f.byEmail[email]; ok {
		return acc, nil
	}
	return Account{}, errors.New("no rows")
}

func (f *fakeAccounts) FindByEmployeeNumber(_ context.Context, number string) (Account, error) {
	if acc, ok := f.byNumber[number]; ok {
		return acc, nil
	}
	return Account{}, errors.New("no rows")
}

func TestAuthenticate(t *testing.T) {
	hash, err := HashPassword("Pa55word!")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	employee := Account{ID: "u1", Email: "jo@example.com", EmployeeNumber: "2510001", Role: RoleEmployee, PasswordHash: hash}
	admin := Account{ID: "u2", Email: "boss@example.com", Role: RoleAdmin, PasswordHash: hash, IsSuperuser: true}
	accounts := &fakeAccounts{
		byEmail:  map[string]Account{employee.Email: employee, admin.Email: admin},
		byNumber: map[string]Account{employee.EmployeeNumber: employee},
	}
	svc := NewService(accounts)

	tests := []struct {
		name    string
		in      LoginInput
		wantID  string
		wantErr error
	}{
		{
			name:   "employee by number",
			in:     LoginInput{EmployeeNumber: "2510001", Password: "Pa55word!", DeclaredRole: RoleEmployee},
			wantID: "u1",
		},
		{
			name:   "employee by email",
			in:     LoginInput{Email: "jo@example.com", Password: "Pa55word!", DeclaredRole: RoleEmployee},
			wantID: "u1",
		},
		{
			name:    "wrong password",
			in:      LoginInput{Email: "jo@example.com", Password: "nope", DeclaredRole: RoleEmployee},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "unknown account",
			in:      LoginInput{Email: "ghost@example.com", Password: "Pa55word!", DeclaredRole: RoleGuest},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "declared role mismatch",
			in:      LoginInput{Email: "jo@example.com", Password: "Pa55word!", DeclaredRole: RoleAdmin},
			wantErr: ErrRoleMismatch,
		},
		{
			name:   "no declared role skips the check",
			in:     LoginInput{Email: "jo@example.com", Password: "Pa55word!"},
			wantID: "u1",
		},
		{
			name:   "no declared role by employee number",
			in:     LoginInput{EmployeeNumber: "2510001", Password: "Pa55word!"},
			wantID: "u1",
		},
		{
			name:   "superuser may declare admin",
			in:     LoginInput{Email: "boss@example.com", Password: "Pa55word!", DeclaredRole: RoleAdmin},
			wantID: "u2",
		},
		{
			name:    "no identifier",
			in:      LoginInput{Password: "Pa55word!", DeclaredRole: RoleGuest},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			acc, err := svc.Authenticate(context.Background(), tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if acc.ID != tc.wantID {
				t.Fatalf("expected account %s, got %s", tc.wantID, acc.ID)
			}
		})
	}
}
