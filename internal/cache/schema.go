package cache

// SearchTable caches Open Library search responses keyed by "query|limit".
const SearchTable = "openlibrary_search_cache"

// SearchCacheSchema uses "cache_key" as the primary key like every cache table.
const SearchCacheSchema = `
CREATE TABLE IF NOT EXISTS openlibrary_search_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_openlibrary_search_cached_at ON openlibrary_search_cache(cached_at);
`

// AllCacheSchemas is applied by Open.
var AllCacheSchemas = []string{
	SearchCacheSchema,
}

// ValidCacheTableNames is the whitelist of table names that may be
// interpolated into SQL.
var ValidCacheTableNames = map[string]bool{
	SearchTable: true,
}

// sources maps the names accepted by "cache invalidate" to tables.
var sources = map[string]string{
	"openlibrary_search": SearchTable,
}
