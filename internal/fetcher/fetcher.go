package fetcher

import (
	"context"
	"fmt"

	"github.com/ai15/dash-ingest/internal/config"
)

// Paper represents one feed entry for an academic paper. Fields mirror the
// feed metadata; ID is the entry GUID, falling back to the link.
type Paper struct {
	ID        string
	Title     string
	Link      string
	Summary   string
	Authors   string
	Published string
}

// Fetcher is an interface for fetching candidate papers from a feed source
type Fetcher interface {
	Fetch(ctx context.Context, limit int) ([]Paper, error)
}

// New creates a new fetcher based on the configuration
func New(cfg *config.Config) (Fetcher, error) {
	if cfg.FeedURL == "" {
		return nil, fmt.Errorf("fetcher: feed URL is required")
	}
	return NewRSSFetcher(cfg.FeedURL), nil
}
