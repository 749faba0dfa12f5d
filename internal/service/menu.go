package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"preorder/internal/model"
)

var ErrMenuItemNotFound = errors.New("menu item not found")

type MenuService struct {
	db *sql.DB
}

func NewMenuService(db *sql.DB) *MenuService {
	return &MenuService{db: db}
}

func (s *MenuService) List(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, price, available, created_at
		FROM menu_items
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query menu: %w", err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		var m model.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Available, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return items, nil
}

func (s *MenuService) Create(ctx context.Context, name, description string, price decimal.Decimal, available bool) (*model.MenuItem, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO menu_items (name, description, price, available)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, price, available, created_at
	`, name, description, price, available)

	var m model.MenuItem
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Available, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert menu item: %w", err)
	}
	return &m, nil
}

func (s *MenuService) Update(ctx context.Context, id, name, description string, price decimal.Decimal, available bool) (*model.MenuItem, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4, available = $5
		WHERE id = $1
		RETURNING id, name, description, price, available, created_at
	`, id, name, description, price, available)

	var m model.MenuItem
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Available, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	return &m, nil
}

func (s *MenuService) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}
