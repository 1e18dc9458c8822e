package domain

// Order Statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Payment Statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment Methods
const (
	PaymentMethodWave         = "wave"
	PaymentMethodOrangeMoney  = "orange_money"
	PaymentMethodCard         = "card"
	PaymentMethodCashDelivery = "cash_on_delivery"
)

// User roles
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

const Currency = "XOF"

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

var PaymentStatuses = []string{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

var PaymentMethods = []string{
	PaymentMethodWave,
	PaymentMethodOrangeMoney,
	PaymentMethodCard,
	PaymentMethodCashDelivery,
}

// IsOnlinePayment reports whether the method goes through the hosted checkout.
func IsOnlinePayment(method string) bool {
	return method != PaymentMethodCashDelivery
}
