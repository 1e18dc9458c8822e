package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"sunushop-backend/config"
	"sunushop-backend/internal/domain"
	"sunushop-backend/pkg/cache"
)

const (
	maxStatsRange     = 366 * 24 * time.Hour
	defaultStatsRange = 30
	dateLayout        = "2006-01-02"
)

// RevenueUsecase aggregates sales for vendors and the admin dashboard.
type RevenueUsecase struct {
	repo  domain.StatsRepository
	cache cache.CacheService
	ttl   time.Duration
}

func NewRevenueUsecase(repo domain.StatsRepository, cache cache.CacheService, cfg *config.Config) *RevenueUsecase {
	return &RevenueUsecase{
		repo:  repo,
		cache: cache,
		ttl:   cfg.CacheStatsTTL,
	}
}

// normalizeRange turns inclusive calendar days into a half-open [start, end)
// interval. Zero values default to the last 30 days.
func normalizeRange(start, end time.Time) (time.Time, time.Time, error) {
	if end.IsZero() {
		end = time.Now().UTC()
	}
	end = truncateDay(end)
	if start.IsZero() {
		start = end.AddDate(0, 0, -defaultStatsRange+1)
	}
	start = truncateDay(start)

	if end.Before(start) {
		return start, end, domain.NewValidationError(domain.CodeInvalidDateRange, "La date de fin doit être postérieure à la date de début")
	}
	if end.Sub(start) > maxStatsRange {
		return start, end, domain.NewValidationError(domain.CodeInvalidDateRange, "La période ne peut pas dépasser un an")
	}
	return start, end.AddDate(0, 0, 1), nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// VendorRevenue reports what one vendor earned from their designs.
func (u *RevenueUsecase) VendorRevenue(ctx context.Context, vendorID string, start, end time.Time) (*domain.VendorRevenue, error) {
	if vendorID == "" {
		return nil, domain.NewFieldErrors(map[string]string{"vendorId": "Ce champ est obligatoire"})
	}
	from, to, err := normalizeRange(start, end)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%svendor:%s:%s:%s", cache.PrefixStats, vendorID, from.Format(dateLayout), to.Format(dateLayout))
	if val, found := u.cache.Get(cacheKey); found {
		return val.(*domain.VendorRevenue), nil
	}

	sales, err := u.repo.VendorDesignSales(ctx, vendorID, from, to)
	if err != nil {
		return nil, err
	}

	rev := &domain.VendorRevenue{
		VendorID: vendorID,
		Start:    from,
		End:      to.AddDate(0, 0, -1),
		Designs:  sales,
	}
	if rev.Designs == nil {
		rev.Designs = []domain.DesignSale{}
	}

	var best *domain.DesignSale
	for i := range rev.Designs {
		s := &rev.Designs[i]
		rev.TotalUnits += s.UnitsSold
		rev.TotalGrossSales += s.GrossSales
		rev.TotalCommission += s.CommissionEarned
		rev.TotalOrders += s.OrderCount
		if best == nil || s.UnitsSold > best.UnitsSold {
			best = s
		}
	}
	if best != nil && best.UnitsSold > 0 {
		rev.BestSellingTitle = best.ProductName
	}

	u.cache.Set(cacheKey, rev, u.ttl)
	return rev, nil
}

// Overview feeds the analytics dashboard.
func (u *RevenueUsecase) Overview(ctx context.Context, start, end time.Time) (*domain.SalesOverview, error) {
	from, to, err := normalizeRange(start, end)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%soverview:%s:%s", cache.PrefixStats, from.Format(dateLayout), to.Format(dateLayout))
	if val, found := u.cache.Get(cacheKey); found {
		return val.(*domain.SalesOverview), nil
	}

	var (
		daily  []domain.DailySales
		byType map[string]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		daily, err = u.repo.DailySales(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		byType, err = u.repo.OrdersByDeliveryType(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ov := &domain.SalesOverview{
		Start:          from,
		End:            to.AddDate(0, 0, -1),
		Daily:          daily,
		ByDeliveryType: byType,
	}
	if ov.Daily == nil {
		ov.Daily = []domain.DailySales{}
	}
	if ov.ByDeliveryType == nil {
		ov.ByDeliveryType = map[string]int64{}
	}
	for _, d := range ov.Daily {
		ov.OrderCount += d.OrderCount
		ov.Revenue += d.Revenue
		ov.DeliveryFees += d.DeliveryFee
	}
	if ov.OrderCount > 0 {
		ov.AverageOrder = ov.Revenue / ov.OrderCount
	}

	u.cache.Set(cacheKey, ov, u.ttl)
	return ov, nil
}
