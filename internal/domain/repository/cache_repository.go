package repository

// PageCacheRepository is the on-disk store of raw fetched responses. Listing
// pages are keyed by sequence number, secondary-source responses by a content
// hash of the query that produced them. The pipeline treats it as read-only
// once a document has been written.
type PageCacheRepository interface {
	// WriteListingPage persists one listing page envelope under its sequence
	// number.
	WriteListingPage(page int, doc interface{}) error

	// ReadListingPage returns the cached envelope for a page, or (nil, nil)
	// on a miss.
	ReadListingPage(page int) ([]byte, error)

	// ListListingPages returns the paths of all cached listing pages in
	// stable (lexicographic) order. Files not matching the naming pattern
	// are ignored.
	ListListingPages() ([]string, error)

	// ReadFile reads one cached file by path.
	ReadFile(path string) ([]byte, error)

	// HashKey derives the content-hash cache key for a query payload.
	HashKey(obj interface{}) string

	// WriteHashed persists a document under prefix_<key>.json.
	WriteHashed(prefix, key string, doc interface{}) error

	// ReadHashed returns the cached document for a hashed key, or (nil, nil)
	// on a miss.
	ReadHashed(prefix, key string) ([]byte, error)
}
