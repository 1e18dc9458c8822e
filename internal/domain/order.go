package domain

import (
	"context"
	"time"
)

type OrderFilter struct {
	Page          int
	Limit         int
	Status        string
	PaymentStatus string
	DeliveryType  string
	Search        string
}

type CustomerInfo struct {
	FirstName string `json:"firstName" validate:"required,max=80"`
	LastName  string `json:"lastName" validate:"required,max=80"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,min=7,max=20"`
}

type ShippingAddress struct {
	Address    string `json:"address" validate:"required,max=255"`
	City       string `json:"city" validate:"required,min=2,max=120"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country" validate:"required,len=2"`
}

type Order struct {
	ID               string          `json:"id"`
	OrderNumber      string          `json:"orderNumber"`
	UserID           *string         `json:"userId"` // nil for guest checkout
	Customer         CustomerInfo    `json:"customer"`
	ShippingAddress  ShippingAddress `json:"shippingAddress"`
	Status           string          `json:"status"`
	PaymentMethod    string          `json:"paymentMethod"`
	PaymentStatus    string          `json:"paymentStatus"`
	PaymentReference string          `json:"paymentReference,omitempty"`
	PaymentURL       string          `json:"paymentUrl,omitempty"`
	Subtotal         int64           `json:"subtotal"`
	DeliveryFee      int64           `json:"deliveryFee"`
	TotalAmount      int64           `json:"totalAmount"`
	DeliveryInfo     DeliveryInfo    `json:"deliveryInfo"`
	Notes            string          `json:"notes,omitempty"`
	Items            []OrderItem     `json:"items"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type OrderItem struct {
	ID               string  `json:"id"`
	OrderID          string  `json:"orderId"`
	ProductID        string  `json:"productId"`
	ProductName      string  `json:"productName"`
	VendorID         *string `json:"vendorId,omitempty"`
	IsVendorDesign   bool    `json:"isVendorDesign"`
	Quantity         int     `json:"quantity"`
	UnitPrice        int64   `json:"unitPrice"` // price at time of purchase
	LineTotal        int64   `json:"lineTotal"`
	DesignCommission int64   `json:"designCommission"` // per unit, vendor designs only
	Customization    JSONB   `json:"customization,omitempty"`
}

type OrderHistory struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"orderId"`
	PreviousStatus *string   `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	Reason         *string   `json:"reason"`
	CreatedBy      *string   `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
	GetByUserID(ctx context.Context, userID string) ([]Order, error)
	GetAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdatePaymentStatus(ctx context.Context, id, status string) error
	SetPaymentReference(ctx context.Context, id, reference, paymentURL string) error

	CreateOrderHistory(ctx context.Context, history *OrderHistory) error
	GetOrderHistory(ctx context.Context, orderID string) ([]OrderHistory, error)
}

const EventOrderPlaced = "order.placed"

// OrderEvent is published when an order is placed.
type OrderEvent struct {
	Type         string    `json:"type"`
	OrderID      string    `json:"orderId"`
	OrderNumber  string    `json:"orderNumber"`
	TotalAmount  int64     `json:"totalAmount"`
	DeliveryFee  int64     `json:"deliveryFee"`
	DeliveryType string    `json:"deliveryType"`
	Country      string    `json:"country"`
	Payment      string    `json:"paymentMethod"`
	ItemCount    int       `json:"itemCount"`
	Guest        bool      `json:"guest"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// EventPublisher delivers domain events to downstream consumers.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderEvent) error
	Close() error
}
