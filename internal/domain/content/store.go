package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrportal/internal/platform/querier"
)

var ErrNotFound = errors.New("content: not found")

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListServices(ctx context.Context) ([]ServiceItem, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, title, description, icon
		FROM services
		ORDER BY title
	`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var items []ServiceItem
	for rows.Next() {
		var item ServiceItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Icon); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) GetService(ctx context.Context, id string) (ServiceItem, error) {
	var item ServiceItem
	err := s.DB.QueryRow(ctx, `
		SELECT id, title, description, icon
		FROM services
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Title, &item.Description, &item.Icon)
	if errors.Is(err, pgx.ErrNoRows) {
		return ServiceItem{}, ErrNotFound
	}
	if err != nil {
		return ServiceItem{}, fmt.Errorf("get service: %w", err)
	}
	return item, nil
}

func (s *Store) CreateService(ctx context.Context, item ServiceItem) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
		INSERT INTO services (title, description, icon)
		VALUES ($1, $2, $3)
		RETURNING id
	`, item.Title, item.Description, item.Icon).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create service: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateService(ctx context.Context, item ServiceItem) error {
	tag, err := s.DB.Exec(ctx, `
		UPDATE services
		SET title = $1, description = $2, icon = $3
		WHERE id = $4
	`, item.Title, item.Description, item.Icon, item.ID)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteService(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateContactMessage(ctx context.Context, msg ContactMessage) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
		INSERT INTO contact_messages (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, msg.Name, msg.Email, msg.Subject, msg.Message).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create contact message: %w", err)
	}
	return id, nil
}

func (s *Store) ListContactMessages(ctx context.Context) ([]ContactMessage, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, name, email, subject, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var messages []ContactMessage
	for rows.Next() {
		var msg ContactMessage
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Subject, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
