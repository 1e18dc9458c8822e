package domain

import (
	"context"
	"time"
)

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Category levels
const (
	CategoryLevelRoot = 0
	CategoryLevelSub  = 1
)

type Category struct {
	ID        string     `json:"id"`
	Name      string     `json:"name" validate:"required,min=2,max=80"`
	Slug      string     `json:"slug"`
	ParentID  *string    `json:"parentId" validate:"required_if=Level 1,excluded_if=Level 0"`
	Level     int        `json:"level" validate:"gte=0,lte=1"`
	Order     int        `json:"order" validate:"gte=0"`
	Children  []Category `json:"children,omitempty" validate:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Product is a catalog item. IsVendorDesign marks a design made by a vendor:
// buyers cannot customize it and the vendor earns DesignCommission per unit.
type Product struct {
	ID               string     `json:"id"`
	Name             string     `json:"name" validate:"required,max=200"`
	Slug             string     `json:"slug"`
	Description      string     `json:"description"`
	Price            int64      `json:"price" validate:"gt=0"`
	SalePrice        *int64     `json:"salePrice" validate:"omitempty,gt=0,ltfield=Price"`
	CategoryID       *string    `json:"categoryId"`
	Images           []string   `json:"images" validate:"dive,url"`
	VendorID         *string    `json:"vendorId"`
	IsVendorDesign   bool       `json:"isVendorDesign"`
	DesignCommission int64      `json:"designCommission" validate:"gte=0"`
	IsCustomizable   bool       `json:"isCustomizable"`
	IsActive         bool       `json:"isActive"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	DeletedAt        *time.Time `json:"deletedAt,omitempty"`
}

// UnitPrice is the price charged per unit.
func (p Product) UnitPrice() int64 {
	if p.SalePrice != nil && *p.SalePrice > 0 {
		return *p.SalePrice
	}
	return p.Price
}

// Purchasable reports whether the product can be ordered.
func (p Product) Purchasable() bool {
	return p.IsActive && p.DeletedAt == nil
}

type ProductFilter struct {
	Page       int
	Limit      int
	CategoryID string
	VendorID   string
	Search     string
	IsActive   *bool
	Deleted    bool
}

type ProductRepository interface {
	GetCategories(ctx context.Context) ([]Category, error)
	GetCategoryByID(ctx context.Context, id string) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error
	UpdateCategory(ctx context.Context, category *Category) error
	DeleteCategory(ctx context.Context, id string) error
	CountChildCategories(ctx context.Context, id string) (int, error)

	GetProducts(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]Product, error)
	CreateProduct(ctx context.Context, product *Product) error
	UpdateProduct(ctx context.Context, product *Product) error
	SoftDeleteProduct(ctx context.Context, id string) error
	RestoreProduct(ctx context.Context, id string) error
}
