package repository

import (
	"fmt"
	"time"

	"rule-one/internal/dto"
	"rule-one/pkg/cache"
	"rule-one/pkg/utils"
)

const keyCompanyResult = "company_result:%s"

// CachedCompanyResult is a computed stock payload plus the time it was stored.
type CachedCompanyResult struct {
	Detail   *dto.StockDetail
	CachedAt time.Time
}

// CompanyCache keeps computed Rule One payloads per ticker for a fixed TTL.
// It only depends on the cache.Cache interface so a distributed store can
// replace the in-memory one without touching callers.
type CompanyCache interface {
	IsValid(symbol string) bool
	Get(symbol string) *CachedCompanyResult
	Set(symbol string, detail *dto.StockDetail)
	Invalidate(symbol string)
}

type companyCache struct {
	store cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewCompanyCache(store cache.Cache, ttl time.Duration) CompanyCache {
	return newCompanyCacheWithClock(store, ttl, utils.TimeNow)
}

func newCompanyCacheWithClock(store cache.Cache, ttl time.Duration, now func() time.Time) CompanyCache {
	return &companyCache{store: store, ttl: ttl, now: now}
}

func (c *companyCache) key(symbol string) string {
	return fmt.Sprintf(keyCompanyResult, utils.NormalizeSymbol(symbol))
}

// lookup enforces the TTL on read against the stored timestamp.
func (c *companyCache) lookup(symbol string) (*CachedCompanyResult, bool) {
	entry, found := cache.GetFromCache[*CachedCompanyResult](c.store, c.key(symbol))
	if !found || entry == nil {
		return nil, false
	}
	if c.now().Sub(entry.CachedAt) >= c.ttl {
		return nil, false
	}
	return entry, true
}

func (c *companyCache) IsValid(symbol string) bool {
	_, ok := c.lookup(symbol)
	return ok
}

func (c *companyCache) Get(symbol string) *CachedCompanyResult {
	entry, ok := c.lookup(symbol)
	if !ok {
		return nil
	}
	return entry
}

func (c *companyCache) Set(symbol string, detail *dto.StockDetail) {
	c.store.Set(c.key(symbol), &CachedCompanyResult{Detail: detail, CachedAt: c.now()}, cache.NoExpiration)
}

func (c *companyCache) Invalidate(symbol string) {
	c.store.Delete(c.key(symbol))
}
