package scrape

import "context"

// ContentStore handles persistence of captured page content.
//
// Read methods never fail: on a storage-layer error they log the condition
// and report "absent" (nil or an empty slice), so read paths cannot crash a
// caller. Open, Close and the write methods surface their errors.
type ContentStore interface {
	// Open establishes the underlying storage handle. Calling Open on an
	// already-open store is a no-op.
	Open() error
	// Close releases the storage handle. Safe to call when not open.
	Close() error

	// SaveContent inserts the candidate or, when a record with the same URL
	// already exists, updates that record in place and returns its id. The
	// lookup and write execute as one atomic unit; the store assigns the
	// timestamp on every call.
	SaveContent(ctx context.Context, c *ScrapedContent) (int64, error)

	// GetContentByID returns the record with the given id, or nil.
	GetContentByID(ctx context.Context, id int64) *ScrapedContent
	// GetContentByURL returns the record with the given URL, or nil.
	GetContentByURL(ctx context.Context, url string) *ScrapedContent
	// GetRecentContent returns up to limit records ordered newest first.
	// A limit of zero or less yields an empty slice.
	GetRecentContent(ctx context.Context, limit int) []*ScrapedContent
	// SearchContent returns every record whose title or text contains each
	// whitespace-separated term of query, case-insensitively, ordered by
	// timestamp ascending. An empty query yields an empty slice.
	SearchContent(ctx context.Context, query string) []*ScrapedContent

	// DeleteContent removes the record with the given id. Deleting an
	// absent id is not an error.
	DeleteContent(ctx context.Context, id int64) error
	// Clear removes all records.
	Clear(ctx context.Context) error

	// Stats reports the record count and the newest write timestamp.
	Stats(ctx context.Context) (StoreStats, error)
}

// Extractor produces a readable article from raw page HTML.
type Extractor interface {
	// Extract returns the page's title/text pair, or ErrNoContent when the
	// document holds no usable text.
	Extract(htmlBody []byte, pageURL string) (*Article, error)
}

// Transport is the asynchronous messaging channel between the capture
// context and the store-owning context.
type Transport interface {
	SendAndAwait(ctx context.Context, req *SaveRequest) (*SaveResponse, error)
}
