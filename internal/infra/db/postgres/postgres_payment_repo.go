package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"society-maintenance-platform/internal/domain"
	"society-maintenance-platform/internal/domain/model"
	"society-maintenance-platform/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `id, bill_id, user_id, order_id, payment_id, amount, currency, receipt, status, created_at, updated_at, settled_at`

func (r *paymentRepo) Save(ctx context.Context, p *model.Payment) error {
	const q = `
INSERT INTO payments (
  id, bill_id, user_id, order_id, payment_id, amount, currency, receipt, status, created_at, updated_at, settled_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
);`
	_, err := r.pool.Exec(ctx, q, p.ID, p.BillID, p.UserID, p.OrderID, p.PaymentID, p.Amount, p.Currency, p.Receipt, p.Status, p.CreatedAt, p.UpdatedAt, p.SettledAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

func (r *paymentRepo) FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id=$1 LIMIT 1;`
	return r.scanOne(r.pool.QueryRow(ctx, q, orderID))
}

func (r *paymentRepo) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus, paymentID *string, settledAt *time.Time) error {
	const q = `UPDATE payments SET status=$2, payment_id=COALESCE($3, payment_id), settled_at=COALESCE($4, settled_at), updated_at=NOW() WHERE id=$1;`
	tag, err := r.pool.Exec(ctx, q, id, status, paymentID, settledAt)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *paymentRepo) ListVerifiedOlderThan(ctx context.Context, olderThan time.Time, limit int) ([]*model.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE status='verified' AND updated_at < $1 ORDER BY updated_at ASC LIMIT $2;`
	rows, err := r.pool.Query(ctx, q, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("list verified payments: %w", err)
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *paymentRepo) scanOne(row rowScanner) (*model.Payment, error) {
	p := &model.Payment{}
	err := row.Scan(&p.ID, &p.BillID, &p.UserID, &p.OrderID, &p.PaymentID, &p.Amount, &p.Currency, &p.Receipt, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.SettledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan payment row: %w", err)
	}
	return p, nil
}
