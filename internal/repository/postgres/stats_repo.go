package pgrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sunushop-backend/internal/domain"
)

type statsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) domain.StatsRepository {
	return &statsRepository{db: db}
}

// revenueFilter keeps orders that count as sales: paid online, or delivered (cash on delivery).
const revenueFilter = `(o.payment_status = 'paid' OR o.status = 'delivered')
	AND o.status NOT IN ('cancelled', 'refunded')
	AND o.created_at >= $1 AND o.created_at < $2`

func (r *statsRepository) VendorDesignSales(ctx context.Context, vendorID string, start, end time.Time) ([]domain.DesignSale, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT oi.product_id, MAX(oi.product_name),
			SUM(oi.quantity)::bigint, SUM(oi.line_total)::bigint, SUM(oi.design_commission * oi.quantity)::bigint,
			COUNT(DISTINCT o.id)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE `+revenueFilter+` AND oi.is_vendor_design AND oi.vendor_id = $3
		GROUP BY oi.product_id
		ORDER BY SUM(oi.quantity) DESC, MAX(oi.product_name)`, start, end, vendorID)
	if err != nil {
		return nil, fmt.Errorf("vendor design sales: %w", err)
	}
	return collect(rows, func(row pgx.Row) (domain.DesignSale, error) {
		var s domain.DesignSale
		err := row.Scan(&s.ProductID, &s.ProductName, &s.UnitsSold, &s.GrossSales, &s.CommissionEarned, &s.OrderCount)
		return s, err
	})
}

func (r *statsRepository) DailySales(ctx context.Context, start, end time.Time) ([]domain.DailySales, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT date_trunc('day', o.created_at) AS day, COUNT(*), SUM(o.total_amount)::bigint, SUM(o.delivery_fee)::bigint
		FROM orders o
		WHERE `+revenueFilter+`
		GROUP BY day
		ORDER BY day`, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	return collect(rows, func(row pgx.Row) (domain.DailySales, error) {
		var d domain.DailySales
		err := row.Scan(&d.Day, &d.OrderCount, &d.Revenue, &d.DeliveryFee)
		return d, err
	})
}

func (r *statsRepository) OrdersByDeliveryType(ctx context.Context, start, end time.Time) (map[string]int64, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT o.delivery_type, COUNT(*)
		FROM orders o
		WHERE o.created_at >= $1 AND o.created_at < $2 AND o.status <> 'cancelled'
		GROUP BY o.delivery_type`, start, end)
	if err != nil {
		return nil, fmt.Errorf("orders by delivery type: %w", err)
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var (
			kind  string
			count int64
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		out[kind] = count
	}
	return out, rows.Err()
}
