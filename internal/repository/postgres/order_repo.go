package pgrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sunushop-backend/internal/domain"
)

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_number, user_id, customer, shipping_address, status, payment_method,
	payment_status, payment_reference, payment_url, subtotal, delivery_fee, total_amount,
	delivery_info, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                               domain.Order
		customer, address, deliveryInfo []byte
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &customer, &address, &o.Status, &o.PaymentMethod,
		&o.PaymentStatus, &o.PaymentReference, &o.PaymentURL, &o.Subtotal, &o.DeliveryFee, &o.TotalAmount,
		&deliveryInfo, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(customer, &o.Customer); err != nil {
		return nil, fmt.Errorf("order %s customer: %w", o.ID, err)
	}
	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("order %s address: %w", o.ID, err)
	}
	if err := json.Unmarshal(deliveryInfo, &o.DeliveryInfo); err != nil {
		return nil, fmt.Errorf("order %s delivery info: %w", o.ID, err)
	}
	return &o, nil
}

// CreateOrder inserts the order and its lines. Run it inside
// TransactionManager.Do so a failed line rolls back the header.
func (r *orderRepository) CreateOrder(ctx context.Context, o *domain.Order) error {
	customer, err := json.Marshal(o.Customer)
	if err != nil {
		return err
	}
	address, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return err
	}
	deliveryInfo, err := json.Marshal(o.DeliveryInfo)
	if err != nil {
		return err
	}

	q := conn(ctx, r.db)
	o.ID = newID(o.ID)
	err = q.QueryRow(ctx, `
		INSERT INTO orders (id, order_number, user_id, customer, customer_email, shipping_address, status,
			payment_method, payment_status, subtotal, delivery_fee, total_amount, delivery_type,
			delivery_info, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`,
		o.ID, o.OrderNumber, o.UserID, customer, strings.ToLower(o.Customer.Email), address, o.Status,
		o.PaymentMethod, o.PaymentStatus, o.Subtotal, o.DeliveryFee, o.TotalAmount, o.DeliveryInfo.DeliveryType,
		deliveryInfo, o.Notes,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	batch := &pgx.Batch{}
	for i := range o.Items {
		item := &o.Items[i]
		item.ID = newID(item.ID)
		item.OrderID = o.ID
		var customization []byte
		if len(item.Customization) > 0 {
			if customization, err = json.Marshal(item.Customization); err != nil {
				return err
			}
		}
		batch.Queue(`
			INSERT INTO order_items (id, order_id, product_id, product_name, vendor_id, is_vendor_design,
				quantity, unit_price, line_total, design_commission, customization)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			item.ID, item.OrderID, item.ProductID, item.ProductName, item.VendorID, item.IsVendorDesign,
			item.Quantity, item.UnitPrice, item.LineTotal, item.DesignCommission, customization)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := r.sendBatch(ctx, batch)
	defer br.Close()
	for range o.Items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert order item: %w", mapError(err))
		}
	}
	return nil
}

func (r *orderRepository) sendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx.SendBatch(ctx, b)
	}
	return r.db.SendBatch(ctx, b)
}

func (r *orderRepository) loadItems(ctx context.Context, orders ...*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*domain.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Items = []domain.OrderItem{}
	}

	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT id, order_id, product_id, product_name, vendor_id, is_vendor_design,
			quantity, unit_price, line_total, design_commission, customization
		FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, id`, ids)
	if err != nil {
		return fmt.Errorf("order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item          domain.OrderItem
			customization []byte
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.VendorID,
			&item.IsVendorDesign, &item.Quantity, &item.UnitPrice, &item.LineTotal, &item.DesignCommission,
			&customization); err != nil {
			return err
		}
		if len(customization) > 0 {
			if err := item.Customization.Scan(customization); err != nil {
				return err
			}
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func (r *orderRepository) getOne(ctx context.Context, where string, arg any) (*domain.Order, error) {
	o, err := scanOrder(conn(ctx, r.db).QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE `+where, arg))
	if err != nil {
		return nil, mapError(err)
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *orderRepository) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return r.getOne(ctx, "order_number = $1", orderNumber)
}

func (r *orderRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return r.collectOrders(ctx, rows)
}

func (r *orderRepository) GetAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Status != "" {
		where = append(where, "status = "+arg(filter.Status))
	}
	if filter.PaymentStatus != "" {
		where = append(where, "payment_status = "+arg(filter.PaymentStatus))
	}
	if filter.DeliveryType != "" {
		where = append(where, "delivery_type = "+arg(filter.DeliveryType))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		p := arg("%" + s + "%")
		where = append(where, "(order_number ILIKE "+p+" OR customer_email ILIKE "+p+")")
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM orders`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	limit, offset := pageBounds(filter.Page, filter.Limit)
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT `+orderColumns+` FROM orders`+clause+` ORDER BY created_at DESC LIMIT `+arg(limit)+` OFFSET `+arg(offset),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	orders, err := r.collectOrders(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) collectOrders(ctx context.Context, rows pgx.Rows) ([]domain.Order, error) {
	ptrs, err := collect(rows, scanOrder)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, ptrs...); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, len(ptrs))
	for i, o := range ptrs {
		orders[i] = *o
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return expectOne(conn(ctx, r.db).Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status))
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	return expectOne(conn(ctx, r.db).Exec(ctx,
		`UPDATE orders SET payment_status = $2, updated_at = NOW() WHERE id = $1`, id, status))
}

func (r *orderRepository) SetPaymentReference(ctx context.Context, id, reference, paymentURL string) error {
	return expectOne(conn(ctx, r.db).Exec(ctx,
		`UPDATE orders SET payment_reference = $2, payment_url = $3, updated_at = NOW() WHERE id = $1`,
		id, reference, paymentURL))
}

func (r *orderRepository) CreateOrderHistory(ctx context.Context, h *domain.OrderHistory) error {
	h.ID = newID(h.ID)
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO order_history (id, order_id, previous_status, new_status, reason, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		h.ID, h.OrderID, h.PreviousStatus, h.NewStatus, h.Reason, h.CreatedBy,
	).Scan(&h.CreatedAt))
}

func (r *orderRepository) GetOrderHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT id, order_id, previous_status, new_status, reason, created_by, created_at
		FROM order_history WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row pgx.Row) (domain.OrderHistory, error) {
		var h domain.OrderHistory
		err := row.Scan(&h.ID, &h.OrderID, &h.PreviousStatus, &h.NewStatus, &h.Reason, &h.CreatedBy, &h.CreatedAt)
		return h, err
	})
}
