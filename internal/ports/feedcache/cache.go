package feedcache

import "context"

// FeedCache caches the table-wide post count between uploads. The count is
// the only feed query not bounded by the page size, so it is the one worth
// keeping out of the database on hot feeds.
type FeedCache interface {
	GetTotal(ctx context.Context) (total int64, ok bool, err error)
	SetTotal(ctx context.Context, total int64) error
	Invalidate(ctx context.Context) error
}
