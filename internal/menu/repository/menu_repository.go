package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"brewline/internal/domain"
	"brewline/internal/errors"
)

type MySQLMenuRepository struct {
	db *sql.DB
}

func NewMySQLMenuRepository(db *sql.DB) *MySQLMenuRepository {
	return &MySQLMenuRepository{db: db}
}

func (r *MySQLMenuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	query := `SELECT id, category, name, price, options FROM menu_items ORDER BY category, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewTransportError("listing menu items", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, errors.NewInternalError("scanning menu row", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("iterating menu rows", err)
	}

	return items, nil
}

func (r *MySQLMenuRepository) FindByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	query := `SELECT id, category, name, price, options FROM menu_items WHERE id = ?`

	item, err := scanMenuItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("menu item %s not found", id))
	}
	if err != nil {
		return nil, errors.NewInternalError("querying menu item by id", err)
	}

	return item, nil
}

func (r *MySQLMenuRepository) Insert(ctx context.Context, item domain.MenuItem) error {
	options, err := json.Marshal(item.Options)
	if err != nil {
		return errors.NewInternalError("encoding item options", err)
	}

	query := `INSERT INTO menu_items (id, category, name, price, options) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, item.ID, item.Category, item.Name, item.Price, options); err != nil {
		return errors.NewTransportError("inserting menu item", err)
	}

	return nil
}

func (r *MySQLMenuRepository) Update(ctx context.Context, item domain.MenuItem) error {
	options, err := json.Marshal(item.Options)
	if err != nil {
		return errors.NewInternalError("encoding item options", err)
	}

	query := `UPDATE menu_items SET category = ?, name = ?, price = ?, options = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, item.Category, item.Name, item.Price, options, item.ID)
	if err != nil {
		return errors.NewTransportError("updating menu item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternalError("getting rows affected", err)
	}
	if rowsAffected == 0 {
		if _, err := r.FindByID(ctx, item.ID); err != nil {
			return err
		}
	}

	return nil
}

func (r *MySQLMenuRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return errors.NewTransportError("deleting menu item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternalError("getting rows affected", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("menu item %s not found", id))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMenuItem(row rowScanner) (*domain.MenuItem, error) {
	var item domain.MenuItem
	var options []byte

	if err := row.Scan(&item.ID, &item.Category, &item.Name, &item.Price, &options); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(options, &item.Options); err != nil {
		return nil, errors.NewInternalError("decoding item options", err)
	}

	return &item, nil
}
