package employee

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrportal/internal/platform/querier"
)

var ErrNotFound = errors.New("employee profile not found")

type Store struct {
	DB querier.Beginner
}

func NewStore(db querier.Beginner) *Store {
	return &Store{DB: db}
}

const profileColumns = `
    e.id, e.user_id, COALESCE(u.employee_number, ''), e.first_name, e.last_name,
    e.position, e.department, COALESCE(e.phone, ''), COALESCE(e.address, ''),
    u.email, e.date_joined
`

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.UserID, &p.EmployeeNumber, &p.FirstName, &p.LastName,
		&p.Position, &p.Department, &p.Phone, &p.Address, &p.Email, &p.DateJoined)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

func (s *Store) Get(ctx context.Context, id string) (Profile, error) {
	return scanProfile(s.DB.QueryRow(ctx, `
    SELECT`+profileColumns+`
    FROM employees e JOIN users u ON u.id = e.user_id
    WHERE e.id = $1
  `, id))
}

func (s *Store) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	return scanProfile(s.DB.QueryRow(ctx, `
    SELECT`+profileColumns+`
    FROM employees e JOIN users u ON u.id = e.user_id
    WHERE e.user_id = $1
  `, userID))
}

func (s *Store) GetByEmail(ctx context.Context, email string) (Profile, error) {
	return scanProfile(s.DB.QueryRow(ctx, `
    SELECT`+profileColumns+`
    FROM employees e JOIN users u ON u.id = e.user_id
    WHERE lower(u.email) = lower($1)
  `, email))
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Profile, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+profileColumns+`
    FROM employees e JOIN users u ON u.id = e.user_id
    ORDER BY e.last_name, e.first_name
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, userID string, p Profile) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (user_id, first_name, last_name, position, department, phone, address)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, userID, p.FirstName, p.LastName, p.Position, p.Department, p.Phone, p.Address).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, id string, p Profile) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $1, last_name = $2, position = $3, department = $4, phone = $5, address = $6
    WHERE id = $7
  `, p.FirstName, p.LastName, p.Position, p.Department, p.Phone, p.Address, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Patch overwrites only the non-empty fields, used by the directory sync
// where the directory wins for every attribute it actually carries.
func (s *Store) Patch(ctx context.Context, id string, p Profile) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = COALESCE(NULLIF($1, ''), first_name),
        last_name  = COALESCE(NULLIF($2, ''), last_name),
        position   = COALESCE(NULLIF($3, ''), position),
        department = COALESCE(NULLIF($4, ''), department),
        phone      = COALESCE(NULLIF($5, ''), phone),
        address    = COALESCE(NULLIF($6, ''), address)
    WHERE id = $7
  `, p.FirstName, p.LastName, p.Position, p.Department, p.Phone, p.Address, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the owning user row; the profile and its attendance and
// leave records go with it through cascade.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM users
    WHERE id = (SELECT user_id FROM employees WHERE id = $1)
  `, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AllocateNumber assigns the user an employee number exactly once. The scan
// and the write run in one transaction holding an advisory lock on the
// (year, department) prefix, so two concurrent allocations in the same
// window cannot compute the same sequence. A unique violation on commit is
// retried once as a belt-and-braces fallback.
func (s *Store) AllocateNumber(ctx context.Context, userID, department string, at time.Time) (string, error) {
	prefix := NumberPrefix(department, at)

	for attempt := 0; ; attempt++ {
		number, err := s.allocateNumberTx(ctx, userID, prefix)
		if err == nil {
			return number, nil
		}
		var pgErr *pgconn.PgError
		if attempt == 0 && errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return "", err
	}
}

func (s *Store) allocateNumberTx(ctx context.Context, userID, prefix string) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", "employee_number:"+prefix); err != nil {
		return "", err
	}

	var existingNumber *string
	if err := tx.QueryRow(ctx, "SELECT employee_number FROM users WHERE id = $1", userID).Scan(&existingNumber); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	if existingNumber != nil && *existingNumber != "" {
		return *existingNumber, nil
	}

	rows, err := tx.Query(ctx, "SELECT employee_number FROM users WHERE employee_number LIKE $1 || '%'", prefix)
	if err != nil {
		return "", err
	}
	var existing []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			rows.Close()
			return "", err
		}
		existing = append(existing, number)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", err
	}

	number, err := NextNumber(prefix, existing)
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, "UPDATE users SET employee_number = $1, updated_at = now() WHERE id = $2", number, userID); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return number, nil
}
