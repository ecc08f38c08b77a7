package output

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hnquoc/tableserve/internal/models"
)

// PostgresArchive keeps a durable copy of lifecycle events and order
// snapshots outside the realtime store. The store itself stays the source
// of truth; the archive only feeds downstream reporting.
type PostgresArchive struct {
	pool *pgxpool.Pool
}

func NewPostgresArchive(ctx context.Context, dsn string) (*PostgresArchive, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	archive := &PostgresArchive{pool: pool}
	if err := archive.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return archive, nil
}

func (p *PostgresArchive) ensureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS order_events (
            id BIGSERIAL PRIMARY KEY,
            topic TEXT NOT NULL,
            payload JSONB NOT NULL,
            recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create order_events table: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS orders_archive (
            id TEXT PRIMARY KEY,
            branch_id TEXT NOT NULL,
            table_number INT NOT NULL,
            total DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            created_at BIGINT NOT NULL,
            items JSONB NOT NULL,
            archived_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create orders_archive table: %w", err)
	}
	return nil
}

func (p *PostgresArchive) WriteMessage(topic string, msg []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := p.pool.Exec(ctx,
		`INSERT INTO order_events (topic, payload) VALUES ($1, $2)`,
		topic, msg,
	)
	if err != nil {
		return fmt.Errorf("failed to insert into order_events: %w", err)
	}
	return nil
}

// ArchiveOrder upserts the latest snapshot of one order.
func (p *PostgresArchive) ArchiveOrder(ctx context.Context, o models.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
        INSERT INTO orders_archive (
            id, branch_id, table_number, total, status,
            payment_method, created_at, items
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (id) DO UPDATE SET
            total = EXCLUDED.total,
            status = EXCLUDED.status,
            items = EXCLUDED.items,
            archived_at = now()
    `,
		o.ID, o.BranchID, o.TableNumber, o.Total, o.Status,
		o.PaymentMethod, o.CreatedAt, items,
	)
	if err != nil {
		return fmt.Errorf("failed to archive order %s: %w", o.ID, err)
	}
	return nil
}

// GetArchivedOrders returns every archived order, newest first.
func (p *PostgresArchive) GetArchivedOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT id, branch_id, table_number, total, status,
               payment_method, created_at, items
        FROM orders_archive
        ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		var items []byte
		if err := rows.Scan(
			&o.ID, &o.BranchID, &o.TableNumber, &o.Total, &o.Status,
			&o.PaymentMethod, &o.CreatedAt, &items,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("failed to decode items for order %s: %w", o.ID, err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (p *PostgresArchive) Close() {
	p.pool.Close()
}
