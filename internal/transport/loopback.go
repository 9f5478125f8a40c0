package transport

import (
	"context"
	"strconv"

	"github.com/insightful/insightful/internal/scrape"
)

// Loopback delivers save requests directly to a store in the same process.
// It is the single-binary capture path and the browserless test double for
// the messaging channel.
type Loopback struct {
	store scrape.ContentStore
}

var _ scrape.Transport = (*Loopback)(nil)

// NewLoopback creates a loopback transport around an open store.
func NewLoopback(store scrape.ContentStore) *Loopback {
	return &Loopback{store: store}
}

// SendAndAwait performs the save and synthesizes the acknowledgment the
// remote service would have produced.
func (l *Loopback) SendAndAwait(ctx context.Context, req *scrape.SaveRequest) (*scrape.SaveResponse, error) {
	if req.Action != scrape.SaveAction {
		return &scrape.SaveResponse{
			Success: false,
			Error:   "unknown action " + strconv.Quote(req.Action),
		}, nil
	}

	id, err := l.store.SaveContent(ctx, &req.Content)
	if err != nil {
		return &scrape.SaveResponse{Success: false, Error: err.Error()}, nil
	}
	return &scrape.SaveResponse{Success: true, ID: id}, nil
}
