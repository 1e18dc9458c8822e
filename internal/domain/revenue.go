package domain

import (
	"context"
	"time"
)

// DesignSale is one vendor design's sales over a period.
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

type DailySales struct {
	Day         time.Time `json:"day"`
	OrderCount  int64     `json:"orderCount"`
	Revenue     int64     `json:"revenue"`
	DeliveryFee int64     `json:"deliveryFee"`
}

type SalesOverview struct {
	Start          time.Time        `json:"start"`
	End            time.Time        `json:"end"`
	OrderCount     int64            `json:"orderCount"`
	Revenue        int64            `json:"revenue"`
	AverageOrder   int64            `json:"averageOrder"`
	DeliveryFees   int64            `json:"deliveryFees"`
	ByDeliveryType map[string]int64 `json:"byDeliveryType"`
	Daily          []DailySales     `json:"daily"`
}

type StatsRepository interface {
	// VendorDesignSales aggregates paid or delivered order lines of one vendor's designs.
	VendorDesignSales(ctx context.Context, vendorID string, start, end time.Time) ([]DesignSale, error)
	DailySales(ctx context.Context, start, end time.Time) ([]DailySales, error)
	OrdersByDeliveryType(ctx context.Context, start, end time.Time) (map[string]int64, error)
}
