package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"hrportal/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const requestColumns = `
    l.id, l.employee_id, e.first_name || ' ' || e.last_name,
    l.start_date, l.end_date, l.reason, l.status, l.created_at, l.updated_at
`

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(&r.ID, &r.EmployeeID, &r.EmployeeName, &r.StartDate, &r.EndDate, &r.Reason, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (s *Store) Create(ctx context.Context, employeeID string, start, end time.Time, reason string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
    WITH created AS (
      INSERT INTO leave_requests (employee_id, start_date, end_date, reason, status)
      VALUES ($1, $2, $3, $4, 'pending')
      RETURNING id, employee_id, start_date, end_date, reason, status, created_at, updated_at
    )
    SELECT l.id, l.employee_id, e.first_name || ' ' || e.last_name,
           l.start_date, l.end_date, l.reason, l.status, l.created_at, l.updated_at
    FROM created l JOIN employees e ON e.id = l.employee_id
  `, employeeID, start, end, reason))
}

func (s *Store) Get(ctx context.Context, id string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests l JOIN employees e ON e.id = l.employee_id
    WHERE l.id = $1
  `, id))
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID string, limit, offset int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests l JOIN employees e ON e.id = l.employee_id
    WHERE l.employee_id = $1
    ORDER BY l.created_at DESC
    LIMIT $2 OFFSET $3
  `, employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (s *Store) ListAll(ctx context.Context, limit, offset int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests l JOIN employees e ON e.id = l.employee_id
    ORDER BY l.created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

// Decide moves a pending request to a terminal state. The WHERE clause is
// the transition guard: deciding an already-decided request affects no rows.
func (s *Store) Decide(ctx context.Context, id string, status Status) (Request, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx, `
    WITH decided AS (
      UPDATE leave_requests
      SET status = $1, updated_at = now()
      WHERE id = $2 AND status = 'pending'
      RETURNING id, employee_id, start_date, end_date, reason, status, created_at, updated_at
    )
    SELECT l.id, l.employee_id, e.first_name || ' ' || e.last_name,
           l.start_date, l.end_date, l.reason, l.status, l.created_at, l.updated_at
    FROM decided l JOIN employees e ON e.id = l.employee_id
  `, status, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, errNotPending
	}
	return req, err
}

var errNotPending = errors.New("request is not pending")

func collectRequests(rows pgx.Rows) ([]Request, error) {
	defer rows.Close()
	var out []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
