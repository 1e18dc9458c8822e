package cache

import "time"

// CacheService is the key/value cache the usecases read through. A miss
// returns (nil, false).
type CacheService interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	// DeletePrefix drops every key under prefix, e.g. all "stats:" entries
	// after an order changes.
	DeletePrefix(prefix string)
	Flush()
}

// Key prefixes shared by the usecases.
const (
	KeyDeliveryCatalog = "delivery:catalog"
	PrefixCategories   = "categories:"
	PrefixStats        = "stats:"
	PrefixCitySearch   = "cities:"
)
