package client

import "time"

// Wire types mirror the server's JSON. They are declared here so the client
// does not depend on server internals.

type AuthResult struct {
	AccessToken string      `json:"accessToken"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	User        SessionUser `json:"user"`
}

type CarrierOption struct {
	ZoneTarifID      string `json:"zoneTarifId"`
	TransporteurName string `json:"transporteurName"`
	LogoURL          string `json:"logoUrl,omitempty"`
	Price            int64  `json:"price"`
	StandardPrice    int64  `json:"standardPrice"`
	Savings          int64  `json:"savings"`
	SavingsPercent   int    `json:"savingsPercent"`
	DeliveryTime     string `json:"deliveryTime"`
}

type Quote struct {
	Status          string          `json:"status"`
	DeliveryType    string          `json:"deliveryType,omitempty"`
	MatchType       string          `json:"matchType,omitempty"`
	Query           string          `json:"query"`
	Country         string          `json:"country"`
	CountryName     string          `json:"countryName"`
	Message         string          `json:"message,omitempty"`
	Fee             int64           `json:"fee"`
	DeliveryTime    string          `json:"deliveryTime,omitempty"`
	RequiresCarrier bool            `json:"requiresCarrier"`
	Options         []CarrierOption `json:"options,omitempty"`
	Selected        *CarrierOption  `json:"selected,omitempty"`
}

type Zone struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Countries []string `json:"countries"`
	Price     int64    `json:"price"`
	Status    string   `json:"status"`
}

type Country struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	NameEN string `json:"nameEn"`
}

type City struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	AdminName   string `json:"adminName,omitempty"`
	Population  int64  `json:"population"`
}

type OrderItem struct {
	ProductID     string         `json:"productId"`
	Quantity      int            `json:"quantity"`
	Customization map[string]any `json:"customization,omitempty"`
}

type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country"`
}

type OrderRequest struct {
	Items           []OrderItem `json:"items"`
	Customer        Customer    `json:"customer"`
	ShippingAddress Address     `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	ZoneTarifID     string      `json:"zoneTarifId,omitempty"`
	Notes           string      `json:"notes,omitempty"`
}

type Order struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"orderNumber"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"paymentMethod"`
	PaymentStatus string    `json:"paymentStatus"`
	Subtotal      int64     `json:"subtotal"`
	DeliveryFee   int64     `json:"deliveryFee"`
	TotalAmount   int64     `json:"totalAmount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CheckoutResult struct {
	Order       Order  `json:"order"`
	RedirectURL string `json:"redirectUrl"`
}

type DesignSale struct {
	ProductID        string `json:"productId"`
	ProductName      string `json:"productName"`
	UnitsSold        int64  `json:"unitsSold"`
	GrossSales       int64  `json:"grossSales"`
	CommissionEarned int64  `json:"commissionEarned"`
	OrderCount       int64  `json:"orderCount"`
}

type VendorRevenue struct {
	VendorID         string       `json:"vendorId"`
	Start            time.Time    `json:"start"`
	End              time.Time    `json:"end"`
	Designs          []DesignSale `json:"designs"`
	TotalUnits       int64        `json:"totalUnits"`
	TotalGrossSales  int64        `json:"totalGrossSales"`
	TotalCommission  int64        `json:"totalCommission"`
	TotalOrders      int64        `json:"totalOrders"`
	BestSellingTitle string       `json:"bestSellingTitle,omitempty"`
}
