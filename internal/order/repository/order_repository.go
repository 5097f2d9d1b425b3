package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"brewline/internal/domain"
	"brewline/internal/errors"
	"brewline/internal/feed"

	"github.com/go-sql-driver/mysql"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

// Insert persists a new order document under its client-generated key.
// Replaying the same key is treated as the same checkout attempt and is not
// an error.
func (r *MySQLOrderRepository) Insert(ctx context.Context, order domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return errors.NewInternalError("encoding order items", err)
	}

	query := `
		INSERT INTO orders (id, ownerId, customerName, items, pickupTime,
		                    paymentAmount, status, paymentStatus)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		order.ID, order.OwnerID, order.CustomerName, items, order.PickupTime,
		order.PaymentAmount, order.Status, order.PaymentStatus,
	)
	if isDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return errors.NewTransportError("inserting order", err)
	}

	return nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, ownerId, customerName, items, pickupTime,
		       paymentAmount, status, paymentStatus, createdAt
		FROM orders
		WHERE id = ?
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, errors.NewInternalError("querying order by id", err)
	}

	return order, nil
}

// ListAll returns the complete orders collection, key ordered, the unit the
// feed redelivers after every mutation.
func (r *MySQLOrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT id, ownerId, customerName, items, pickupTime,
		       paymentAmount, status, paymentStatus, createdAt
		FROM orders
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewTransportError("listing orders", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, errors.NewInternalError("scanning order row", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("iterating order rows", err)
	}

	return orders, nil
}

// UpdateFields applies a partial update; nil patch members leave the column
// untouched.
func (r *MySQLOrderRepository) UpdateFields(ctx context.Context, id string, patch feed.OrderFieldPatch) error {
	set := ""
	args := []interface{}{}
	if patch.Status != nil {
		set = "status = ?"
		args = append(args, *patch.Status)
	}
	if patch.PaymentStatus != nil {
		if set != "" {
			set += ", "
		}
		set += "paymentStatus = ?"
		args = append(args, *patch.PaymentStatus)
	}
	if set == "" {
		return nil
	}
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, "UPDATE orders SET "+set+" WHERE id = ?", args...)
	if err != nil {
		return errors.NewTransportError("updating order fields", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternalError("getting rows affected", err)
	}
	if rowsAffected == 0 {
		// Zero rows can also mean an identical value was rewritten; only a
		// missing key is reported.
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var items []byte
	var createdAt sql.NullTime

	err := row.Scan(
		&order.ID, &order.OwnerID, &order.CustomerName, &items, &order.PickupTime,
		&order.PaymentAmount, &order.Status, &order.PaymentStatus, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, errors.NewInternalError("decoding order items", err)
	}
	if createdAt.Valid {
		order.CreatedAt = createdAt.Time
	}

	return &order, nil
}

func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if stderrors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
