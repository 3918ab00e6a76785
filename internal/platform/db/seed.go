package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrportal/internal/domain/auth"
	"hrportal/internal/platform/config"
	"hrportal/internal/platform/querier"
)

var defaultServices = []struct {
	Title       string
	Description string
	Icon        string
}{
	{"HR Consulting", "Policy design, compliance reviews and workforce planning.", "briefcase"},
	{"Recruitment", "End-to-end hiring from sourcing to onboarding.", "users"},
	{"Payroll Outsourcing", "Accurate monthly payroll with statutory reporting.", "calculator"},
	{"Training & Development", "Tailored programs that grow your team's skills.", "academic-cap"},
}

// Seed ensures the baseline rows the application expects: the admin
// account from config and the default public services. Safe to run on
// every startup.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}
	return ensureDefaultServices(ctx, pool)
}

func ensureAdminUser(ctx context.Context, pool querier.Querier, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO users (email, password_hash, role, first_name, last_name, is_superuser)
		VALUES ($1, $2, $3, 'Admin', 'User', TRUE)
	`, email, hash, string(auth.RoleAdmin))
	return err
}

func ensureDefaultServices(ctx context.Context, pool querier.Querier) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM services").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, svc := range defaultServices {
		if _, err := pool.Exec(ctx, `
			INSERT INTO services (title, description, icon)
			VALUES ($1, $2, $3)
		`, svc.Title, svc.Description, svc.Icon); err != nil {
			return err
		}
	}
	return nil
}
