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

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) domain.ProductRepository {
	return &productRepository{db: db}
}

// --- Categories ---

const categoryColumns = `id, name, slug, parent_id, level, sort_order, created_at, updated_at`

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.Level, &c.Order, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *productRepository) GetCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY level, sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return collect(rows, scanCategory)
}

func (r *productRepository) GetCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	c, err := scanCategory(conn(ctx, r.db).QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *productRepository) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c, err := scanCategory(conn(ctx, r.db).QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug))
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *productRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	c.ID = newID(c.ID)
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO categories (id, name, slug, parent_id, level, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Slug, c.ParentID, c.Level, c.Order,
	).Scan(&c.CreatedAt, &c.UpdatedAt))
}

func (r *productRepository) UpdateCategory(ctx context.Context, c *domain.Category) error {
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		UPDATE categories SET name = $2, slug = $3, parent_id = $4, level = $5, sort_order = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Slug, c.ParentID, c.Level, c.Order,
	).Scan(&c.CreatedAt, &c.UpdatedAt))
}

func (r *productRepository) DeleteCategory(ctx context.Context, id string) error {
	return expectOne(conn(ctx, r.db).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id))
}

func (r *productRepository) CountChildCategories(ctx context.Context, id string) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE parent_id = $1`, id).Scan(&n)
	return n, err
}

// --- Products ---

const productColumns = `id, name, slug, description, price, sale_price, category_id, images, vendor_id,
	is_vendor_design, design_commission, is_customizable, is_active, created_at, updated_at, deleted_at`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p      domain.Product
		images []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.SalePrice, &p.CategoryID, &images,
		&p.VendorID, &p.IsVendorDesign, &p.DesignCommission, &p.IsCustomizable, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return p, err
	}
	p.Images = []string{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return p, fmt.Errorf("product %s images: %w", p.ID, err)
		}
	}
	return p, nil
}

func (r *productRepository) GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Deleted {
		where = append(where, "deleted_at IS NOT NULL")
	} else {
		where = append(where, "deleted_at IS NULL")
	}
	if filter.CategoryID != "" {
		p := arg(filter.CategoryID)
		where = append(where, "(category_id = "+p+" OR category_id IN (SELECT id FROM categories WHERE parent_id = "+p+"))")
	}
	if filter.VendorID != "" {
		where = append(where, "vendor_id = "+arg(filter.VendorID))
	}
	if filter.IsActive != nil {
		where = append(where, "is_active = "+arg(*filter.IsActive))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		p := arg("%" + s + "%")
		where = append(where, "(name ILIKE "+p+" OR description ILIKE "+p+")")
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM products`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	limit, offset := pageBounds(filter.Page, filter.Limit)
	query := `SELECT ` + productColumns + ` FROM products` + clause +
		` ORDER BY created_at DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	products, err := collect(rows, scanProduct)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(conn(ctx, r.db).QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// GetProductsByIDs includes soft-deleted rows; callers decide what is purchasable.
func (r *productRepository) GetProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("products by ids: %w", err)
	}
	return collect(rows, scanProduct)
}

func (r *productRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	images, err := json.Marshal(nonNil(p.Images))
	if err != nil {
		return err
	}
	p.ID = newID(p.ID)
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO products (id, name, slug, description, price, sale_price, category_id, images, vendor_id,
			is_vendor_design, design_commission, is_customizable, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.SalePrice, p.CategoryID, images, p.VendorID,
		p.IsVendorDesign, p.DesignCommission, p.IsCustomizable, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt))
}

func (r *productRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	images, err := json.Marshal(nonNil(p.Images))
	if err != nil {
		return err
	}
	return mapError(conn(ctx, r.db).QueryRow(ctx, `
		UPDATE products SET name = $2, slug = $3, description = $4, price = $5, sale_price = $6,
			category_id = $7, images = $8, vendor_id = $9, is_vendor_design = $10, design_commission = $11,
			is_customizable = $12, is_active = $13, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.SalePrice, p.CategoryID, images, p.VendorID,
		p.IsVendorDesign, p.DesignCommission, p.IsCustomizable, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt))
}

func (r *productRepository) SoftDeleteProduct(ctx context.Context, id string) error {
	return expectOne(conn(ctx, r.db).Exec(ctx,
		`UPDATE products SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id))
}

func (r *productRepository) RestoreProduct(ctx context.Context, id string) error {
	return expectOne(conn(ctx, r.db).Exec(ctx,
		`UPDATE products SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL`, id))
}

func pageBounds(page, limit int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}
