package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"sunushop-backend/internal/domain"
)

// --- Delivery repository ---

type mockDeliveryRepo struct{ mock.Mock }

func (m *mockDeliveryRepo) ListCities(ctx context.Context) ([]domain.City, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.City), args.Error(1)
}
func (m *mockDeliveryRepo) GetCity(ctx context.Context, id string) (*domain.City, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domain.City)
	return c, args.Error(1)
}
func (m *mockDeliveryRepo) CreateCity(ctx context.Context, c *domain.City) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockDeliveryRepo) UpdateCity(ctx context.Context, c *domain.City) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockDeliveryRepo) DeleteCity(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockDeliveryRepo) SetCityStatus(ctx context.Context, id string, s domain.Status) error {
	return m.Called(ctx, id, s).Error(0)
}

func (m *mockDeliveryRepo) ListRegions(ctx context.Context) ([]domain.Region, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Region), args.Error(1)
}
func (m *mockDeliveryRepo) GetRegion(ctx context.Context, id string) (*domain.Region, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*domain.Region)
	return r, args.Error(1)
}
func (m *mockDeliveryRepo) CreateRegion(ctx context.Context, r *domain.Region) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockDeliveryRepo) UpdateRegion(ctx context.Context, r *domain.Region) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockDeliveryRepo) DeleteRegion(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockDeliveryRepo) SetRegionStatus(ctx context.Context, id string, s domain.Status) error {
	return m.Called(ctx, id, s).Error(0)
}

func (m *mockDeliveryRepo) ListZones(ctx context.Context) ([]domain.InternationalZone, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.InternationalZone), args.Error(1)
}
func (m *mockDeliveryRepo) GetZone(ctx context.Context, id string) (*domain.InternationalZone, error) {
	args := m.Called(ctx, id)
	z, _ := args.Get(0).(*domain.InternationalZone)
	return z, args.Error(1)
}
func (m *mockDeliveryRepo) CreateZone(ctx context.Context, z *domain.InternationalZone) error {
	return m.Called(ctx, z).Error(0)
}
func (m *mockDeliveryRepo) UpdateZone(ctx context.Context, z *domain.InternationalZone) error {
	return m.Called(ctx, z).Error(0)
}
func (m *mockDeliveryRepo) DeleteZone(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockDeliveryRepo) SetZoneStatus(ctx context.Context, id string, s domain.Status) error {
	return m.Called(ctx, id, s).Error(0)
}

func (m *mockDeliveryRepo) ListTransporteurs(ctx context.Context) ([]domain.Transporteur, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Transporteur), args.Error(1)
}
func (m *mockDeliveryRepo) GetTransporteur(ctx context.Context, id string) (*domain.Transporteur, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*domain.Transporteur)
	return t, args.Error(1)
}
func (m *mockDeliveryRepo) CreateTransporteur(ctx context.Context, t *domain.Transporteur) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockDeliveryRepo) UpdateTransporteur(ctx context.Context, t *domain.Transporteur) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockDeliveryRepo) DeleteTransporteur(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockDeliveryRepo) SetTransporteurStatus(ctx context.Context, id string, s domain.Status) error {
	return m.Called(ctx, id, s).Error(0)
}

func (m *mockDeliveryRepo) ListTarifs(ctx context.Context) ([]domain.ZoneTarif, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ZoneTarif), args.Error(1)
}
func (m *mockDeliveryRepo) GetTarif(ctx context.Context, id string) (*domain.ZoneTarif, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*domain.ZoneTarif)
	return t, args.Error(1)
}
func (m *mockDeliveryRepo) CreateTarif(ctx context.Context, t *domain.ZoneTarif) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockDeliveryRepo) UpdateTarif(ctx context.Context, t *domain.ZoneTarif) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockDeliveryRepo) DeleteTarif(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockDeliveryRepo) SetTarifStatus(ctx context.Context, id string, s domain.Status) error {
	return m.Called(ctx, id, s).Error(0)
}
func (m *mockDeliveryRepo) CountTarifsByZone(ctx context.Context, zoneID string) (int, error) {
	args := m.Called(ctx, zoneID)
	return args.Int(0), args.Error(1)
}
func (m *mockDeliveryRepo) CountTarifsByTransporteur(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

// expectCatalog wires the five list calls to return cat.
func (m *mockDeliveryRepo) expectCatalog(cat *domain.DeliveryCatalog) {
	m.On("ListCities", mock.Anything).Return(cat.Cities, nil)
	m.On("ListRegions", mock.Anything).Return(cat.Regions, nil)
	m.On("ListZones", mock.Anything).Return(cat.Zones, nil)
	m.On("ListTransporteurs", mock.Anything).Return(cat.Transporteurs, nil)
	m.On("ListTarifs", mock.Anything).Return(cat.Tarifs, nil)
}

// --- Product repository ---

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) GetCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}
func (m *mockProductRepo) GetCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domain.Category)
	return c, args.Error(1)
}
func (m *mockProductRepo) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	args := m.Called(ctx, slug)
	c, _ := args.Get(0).(*domain.Category)
	return c, args.Error(1)
}
func (m *mockProductRepo) CreateCategory(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockProductRepo) UpdateCategory(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockProductRepo) DeleteCategory(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockProductRepo) CountChildCategories(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *mockProductRepo) GetProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Product), args.Get(1).(int64), args.Error(2)
}
func (m *mockProductRepo) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}
func (m *mockProductRepo) GetProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Product), args.Error(1)
}
func (m *mockProductRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockProductRepo) UpdateProduct(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockProductRepo) SoftDeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockProductRepo) RestoreProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- Order repository ---

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) CreateOrder(ctx context.Context, o *domain.Order) error {
	return m.Called(ctx, o).Error(0)
}
func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*domain.Order)
	return o, args.Error(1)
}
func (m *mockOrderRepo) GetByNumber(ctx context.Context, n string) (*domain.Order, error) {
	args := m.Called(ctx, n)
	o, _ := args.Get(0).(*domain.Order)
	return o, args.Error(1)
}
func (m *mockOrderRepo) GetByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}
func (m *mockOrderRepo) GetAll(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}
func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *mockOrderRepo) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *mockOrderRepo) SetPaymentReference(ctx context.Context, id, ref, url string) error {
	return m.Called(ctx, id, ref, url).Error(0)
}
func (m *mockOrderRepo) CreateOrderHistory(ctx context.Context, h *domain.OrderHistory) error {
	return m.Called(ctx, h).Error(0)
}
func (m *mockOrderRepo) GetOrderHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.OrderHistory), args.Error(1)
}

// --- User repository ---

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}
func (m *mockUserRepo) GetAll(ctx context.Context, limit, offset int) ([]*domain.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*domain.User), args.Get(1).(int64), args.Error(2)
}

// --- Stats repository ---

type mockStatsRepo struct{ mock.Mock }

func (m *mockStatsRepo) VendorDesignSales(ctx context.Context, vendorID string, start, end time.Time) ([]domain.DesignSale, error) {
	args := m.Called(ctx, vendorID, start, end)
	return args.Get(0).([]domain.DesignSale), args.Error(1)
}
func (m *mockStatsRepo) DailySales(ctx context.Context, start, end time.Time) ([]domain.DailySales, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]domain.DailySales), args.Error(1)
}
func (m *mockStatsRepo) OrdersByDeliveryType(ctx context.Context, start, end time.Time) (map[string]int64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(map[string]int64), args.Error(1)
}

// --- Collaborators ---

type mockPayment struct{ mock.Mock }

func (m *mockPayment) CreateCheckout(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*domain.PaymentSession)
	return s, args.Error(1)
}
func (m *mockPayment) VerifySignature(payload []byte, signature string) bool {
	return m.Called(payload, signature).Bool(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishOrderPlaced(ctx context.Context, e domain.OrderEvent) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockPublisher) Close() error { return m.Called().Error(0) }

type mockCityFinder struct{ mock.Mock }

func (m *mockCityFinder) SearchCities(ctx context.Context, query, country string) ([]domain.CityResult, error) {
	args := m.Called(ctx, query, country)
	r, _ := args.Get(0).([]domain.CityResult)
	return r, args.Error(1)
}

// fakeTx runs fn inline, like a transaction that always commits.
type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

// mapCache is an in-memory cache.CacheService for tests.
type mapCache struct {
	mu    sync.Mutex
	items map[string]interface{}
}

func newMapCache() *mapCache { return &mapCache{items: map[string]interface{}{}} }

func (c *mapCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}
func (c *mapCache) Set(key string, value interface{}, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}
func (c *mapCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}
func (c *mapCache) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
}
func (c *mapCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]interface{}{}
}
