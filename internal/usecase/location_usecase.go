package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"sunushop-backend/config"
	"sunushop-backend/internal/domain"
	"sunushop-backend/internal/metrics"
	"sunushop-backend/pkg/cache"
	"sunushop-backend/pkg/countries"
)

const minCitySearchLen = 2

// LocationUsecase serves city autocomplete. Each session key has at most
// one search in flight: a newer query cancels the older one.
type LocationUsecase struct {
	finder  domain.CityFinder
	cache   cache.CacheService
	ttl     time.Duration
	timeout time.Duration

	mu       sync.Mutex
	nextGen  uint64
	sessions map[string]*citySearch
}

type citySearch struct {
	gen    uint64
	cancel context.CancelFunc
}

func NewLocationUsecase(finder domain.CityFinder, cache cache.CacheService, cfg *config.Config) *LocationUsecase {
	return &LocationUsecase{
		finder:   finder,
		cache:    cache,
		ttl:      cfg.CacheCitySearch,
		timeout:  cfg.GeoNamesTimeout,
		sessions: make(map[string]*citySearch),
	}
}

// SearchCities returns populated places whose name starts with query. A
// search replaced by a newer one from the same session returns
// domain.ErrSearchSuperseded.
func (u *LocationUsecase) SearchCities(ctx context.Context, sessionKey, query, country string) ([]domain.CityResult, error) {
	query = strings.TrimSpace(query)
	country = strings.ToUpper(strings.TrimSpace(country))

	if utf8.RuneCountInString(query) < minCitySearchLen {
		u.supersede(sessionKey)
		return []domain.CityResult{}, nil
	}

	key := cache.PrefixCitySearch + country + ":" + strings.ToLower(query)
	if val, found := u.cache.Get(key); found {
		u.supersede(sessionKey)
		metrics.CitySearches.WithLabelValues("cached").Inc()
		return val.([]domain.CityResult), nil
	}

	searchCtx, gen := u.begin(ctx, sessionKey)
	defer u.finish(sessionKey, gen)
	if u.timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(searchCtx, u.timeout)
		defer cancel()
	}

	results, err := u.finder.SearchCities(searchCtx, query, country)
	if u.isStale(sessionKey, gen) {
		metrics.CitySearches.WithLabelValues("superseded").Inc()
		return nil, domain.ErrSearchSuperseded
	}
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		metrics.CitySearches.WithLabelValues("error").Inc()
		slog.Warn("Usecase: SearchCities failed", "query", query, "country", country, "error", err)
		return nil, fmt.Errorf("search cities: %w", err)
	}

	if results == nil {
		results = []domain.CityResult{}
	}
	metrics.CitySearches.WithLabelValues("ok").Inc()
	u.cache.Set(key, results, u.ttl)
	return results, nil
}

// begin registers a new search for sessionKey, cancelling the previous one.
func (u *LocationUsecase) begin(ctx context.Context, sessionKey string) (context.Context, uint64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.nextGen++
	if sessionKey == "" {
		return ctx, u.nextGen
	}

	searchCtx, cancel := context.WithCancel(ctx)
	if prev, ok := u.sessions[sessionKey]; ok {
		prev.cancel()
	}
	u.sessions[sessionKey] = &citySearch{gen: u.nextGen, cancel: cancel}
	return searchCtx, u.nextGen
}

func (u *LocationUsecase) finish(sessionKey string, gen uint64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if s, ok := u.sessions[sessionKey]; ok && s.gen == gen {
		s.cancel()
		delete(u.sessions, sessionKey)
	}
}

func (u *LocationUsecase) isStale(sessionKey string, gen uint64) bool {
	if sessionKey == "" {
		return false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	s, ok := u.sessions[sessionKey]
	return !ok || s.gen != gen
}

// supersede cancels whatever the session has in flight without starting a new search.
func (u *LocationUsecase) supersede(sessionKey string) {
	if sessionKey == "" {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if s, ok := u.sessions[sessionKey]; ok {
		s.cancel()
		delete(u.sessions, sessionKey)
	}
}

// Countries lists the destinations the storefront can pick from.
func (u *LocationUsecase) Countries(query string) []countries.Country {
	return countries.Search(query)
}
