package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sunushop-backend/config"
	"sunushop-backend/internal/domain"
	"sunushop-backend/internal/metrics"
	"sunushop-backend/pkg/cache"
)

// DeliveryUsecase serves delivery reference data and quotes to the storefront.
type DeliveryUsecase struct {
	repo     domain.DeliveryRepository
	cache    cache.CacheService
	resolver *DeliveryResolver
	ttl      time.Duration

	// generation is bumped by Invalidate; a load started under an older
	// generation does not write its snapshot back.
	mu         sync.Mutex
	generation uint64
}

func NewDeliveryUsecase(repo domain.DeliveryRepository, cache cache.CacheService, resolver *DeliveryResolver, cfg *config.Config) *DeliveryUsecase {
	return &DeliveryUsecase{
		repo:     repo,
		cache:    cache,
		resolver: resolver,
		ttl:      cfg.CacheDeliveryTTL,
	}
}

// Catalog returns the current reference snapshot. The five lists are
// fetched concurrently; the first failure cancels the others.
func (u *DeliveryUsecase) Catalog(ctx context.Context) (*domain.DeliveryCatalog, error) {
	if val, found := u.cache.Get(cache.KeyDeliveryCatalog); found {
		if cat, ok := val.(*domain.DeliveryCatalog); ok {
			metrics.CacheHit("delivery")
			return cat, nil
		}
	}
	metrics.CacheMiss("delivery")

	u.mu.Lock()
	gen := u.generation
	u.mu.Unlock()

	start := time.Now()
	cat := &domain.DeliveryCatalog{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cat.Cities, err = u.repo.ListCities(gctx)
		return err
	})
	g.Go(func() (err error) {
		cat.Regions, err = u.repo.ListRegions(gctx)
		return err
	})
	g.Go(func() (err error) {
		cat.Zones, err = u.repo.ListZones(gctx)
		return err
	})
	g.Go(func() (err error) {
		cat.Transporteurs, err = u.repo.ListTransporteurs(gctx)
		return err
	})
	g.Go(func() (err error) {
		cat.Tarifs, err = u.repo.ListTarifs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load delivery catalog: %w", err)
	}
	cat.LoadedAt = time.Now()
	metrics.CatalogLoadDuration.Observe(time.Since(start).Seconds())

	u.mu.Lock()
	if u.generation == gen {
		u.cache.Set(cache.KeyDeliveryCatalog, cat, u.ttl)
	}
	u.mu.Unlock()
	return cat, nil
}

// Quote resolves a destination against the current catalog. A catalog that
// cannot be loaded yields an unavailable quote, not an error, so the
// storefront can keep rendering.
func (u *DeliveryUsecase) Quote(ctx context.Context, req domain.QuoteRequest) domain.DeliveryQuote {
	cat, err := u.Catalog(ctx)
	if err != nil {
		slog.Error("Delivery: catalog unavailable", "error", err)
		cat = nil
	}
	quote := u.resolver.Resolve(cat, req)
	metrics.DeliveryQuotes.WithLabelValues(quote.Status, quote.MatchType).Inc()
	return quote
}

func (u *DeliveryUsecase) HomeCountry() string {
	return u.resolver.HomeCountry()
}

// Invalidate drops the cached snapshot after an admin mutation.
func (u *DeliveryUsecase) Invalidate() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.generation++
	u.cache.Delete(cache.KeyDeliveryCatalog)
}

// Storefront selectors only list active records.

func (u *DeliveryUsecase) ActiveCities(ctx context.Context) ([]domain.City, error) {
	cat, err := u.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return filterActive(cat.Cities, func(c domain.City) domain.Status { return c.Status }), nil
}

func (u *DeliveryUsecase) ActiveRegions(ctx context.Context) ([]domain.Region, error) {
	cat, err := u.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return filterActive(cat.Regions, func(r domain.Region) domain.Status { return r.Status }), nil
}

func (u *DeliveryUsecase) ActiveZones(ctx context.Context) ([]domain.InternationalZone, error) {
	cat, err := u.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return filterActive(cat.Zones, func(z domain.InternationalZone) domain.Status { return z.Status }), nil
}

func (u *DeliveryUsecase) ActiveTransporteurs(ctx context.Context) ([]domain.Transporteur, error) {
	cat, err := u.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return filterActive(cat.Transporteurs, func(t domain.Transporteur) domain.Status { return t.Status }), nil
}

func filterActive[T any](items []T, status func(T) domain.Status) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if isActive(status(it)) {
			out = append(out, it)
		}
	}
	return out
}
