package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

var ErrAccountNotFound = errors.New("account not found")

type AccountSummary struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	EmployeeNumber string     `json:"employeeNumber,omitempty"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Role           Role       `json:"role"`
	IsSuperuser    bool       `json:"isSuperuser"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func (s *Store) CreateAccount(ctx context.Context, acc Account, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (email, first_name, last_name, role, password_hash, is_superuser)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, acc.Email, acc.FirstName, acc.LastName, acc.Role, passwordHash, acc.IsSuperuser).Scan(&id)
	return id, err
}

func (s *Store) GetAccount(ctx context.Context, id string) (AccountSummary, error) {
	var out AccountSummary
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, COALESCE(employee_number, ''), first_name, last_name, role, is_superuser, last_login, created_at
    FROM users
    WHERE id = $1
  `, id).Scan(&out.ID, &out.Email, &out.EmployeeNumber, &out.FirstName, &out.LastName, &out.Role, &out.IsSuperuser, &out.LastLogin, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return AccountSummary{}, ErrAccountNotFound
	}
	return out, err
}

func (s *Store) ListAccounts(ctx context.Context, limit, offset int) ([]AccountSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, email, COALESCE(employee_number, ''), first_name, last_name, role, is_superuser, last_login, created_at
    FROM users
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AccountSummary
	for rows.Next() {
		var a AccountSummary
		if err := rows.Scan(&a.ID, &a.Email, &a.EmployeeNumber, &a.FirstName, &a.LastName, &a.Role, &a.IsSuperuser, &a.LastLogin, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) UpdateAccount(ctx context.Context, id string, firstName, lastName string, role Role) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users
    SET first_name = $1, last_name = $2, role = $3, updated_at = now()
    WHERE id = $4
  `, firstName, lastName, role, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// UpdateAccountNames overwrites names only when the new value is non-empty,
// used by the directory sync where the directory wins for present fields.
func (s *Store) UpdateAccountNames(ctx context.Context, id, firstName, lastName string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE users
    SET first_name = COALESCE(NULLIF($1, ''), first_name),
        last_name  = COALESCE(NULLIF($2, ''), last_name),
        updated_at = now()
    WHERE id = $3
  `, firstName, lastName, id)
	return err
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}
