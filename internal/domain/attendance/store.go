package attendance

import (
	"context"
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

const recordColumns = `
    a.id, a.employee_id, e.first_name || ' ' || e.last_name, a.date, a.time_in, a.time_out, a.status
`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Date, &rec.TimeIn, &rec.TimeOut, &rec.Status)
	return rec, err
}

// UpsertClockIn is the atomic get-or-create for a day's record. When the row
// already has a time_in the update clauses keep the existing values, so a
// retried clock-in returns the original record unchanged.
func (s *Store) UpsertClockIn(ctx context.Context, employeeID string, day time.Time, now time.Time) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, `
    WITH upserted AS (
      INSERT INTO attendance (employee_id, date, time_in, status)
      VALUES ($1, $2, $3, 'present')
      ON CONFLICT (employee_id, date) DO UPDATE
      SET time_in = COALESCE(attendance.time_in, EXCLUDED.time_in),
          status  = CASE WHEN attendance.time_in IS NULL THEN 'present' ELSE attendance.status END
      RETURNING id, employee_id, date, time_in, time_out, status
    )
    SELECT a.id, a.employee_id, e.first_name || ' ' || e.last_name, a.date, a.time_in, a.time_out, a.status
    FROM upserted a JOIN employees e ON e.id = a.employee_id
  `, employeeID, day, now))
}

func (s *Store) GetForDay(ctx context.Context, employeeID string, day time.Time) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, `
    SELECT`+recordColumns+`
    FROM attendance a JOIN employees e ON e.id = a.employee_id
    WHERE a.employee_id = $1 AND a.date = $2
  `, employeeID, day))
}

func (s *Store) SetTimeOut(ctx context.Context, recordID string, now time.Time) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, `
    WITH updated AS (
      UPDATE attendance
      SET time_out = $1
      WHERE id = $2
      RETURNING id, employee_id, date, time_in, time_out, status
    )
    SELECT a.id, a.employee_id, e.first_name || ' ' || e.last_name, a.date, a.time_in, a.time_out, a.status
    FROM updated a JOIN employees e ON e.id = a.employee_id
  `, now, recordID))
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID string, limit, offset int) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+recordColumns+`
    FROM attendance a JOIN employees e ON e.id = a.employee_id
    WHERE a.employee_id = $1
    ORDER BY a.date DESC
    LIMIT $2 OFFSET $3
  `, employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func (s *Store) ListAll(ctx context.Context, limit, offset int) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+recordColumns+`
    FROM attendance a JOIN employees e ON e.id = a.employee_id
    ORDER BY a.date DESC, e.last_name
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// ListForMonth feeds the admin report exports.
func (s *Store) ListForMonth(ctx context.Context, year int, month time.Month) ([]MonthRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.first_name || ' ' || e.last_name, COALESCE(u.employee_number, ''), e.department,
           a.date, a.time_in, a.time_out, a.status
    FROM attendance a
    JOIN employees e ON e.id = a.employee_id
    JOIN users u ON u.id = e.user_id
    WHERE date_trunc('month', a.date) = make_date($1, $2, 1)
    ORDER BY a.date, e.last_name
  `, year, int(month))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthRow
	for rows.Next() {
		var r MonthRow
		if err := rows.Scan(&r.EmployeeName, &r.EmployeeNumber, &r.Department, &r.Date, &r.TimeIn, &r.TimeOut, &r.Status); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) UpdateStatus(ctx context.Context, recordID string, status Status) error {
	tag, err := s.DB.Exec(ctx, "UPDATE attendance SET status = $1 WHERE id = $2", status, recordID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type MonthRow struct {
	EmployeeName   string
	EmployeeNumber string
	Department     string
	Date           time.Time
	TimeIn         *time.Time
	TimeOut        *time.Time
	Status         Status
}

func collectRecords(rows pgx.Rows) ([]Record, error) {
	defer rows.Close()
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
