package constants

import "time"

const (
	CatalogCachePrefix = "catalog"      // CacheBuilder adds the colon
	CatalogCacheKey    = "cards"        // Full card list, filtered in memory
	CatalogCacheExpiry = 24 * time.Hour // Refreshed daily by the catalog job
)
