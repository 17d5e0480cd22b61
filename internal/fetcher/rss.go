package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSFetcher fetches papers from an RSS/Atom feed.
type RSSFetcher struct {
	feedURL string
	parser  *gofeed.Parser
}

func NewRSSFetcher(feedURL string) *RSSFetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 30 * time.Second}
	return &RSSFetcher{
		feedURL: feedURL,
		parser:  parser,
	}
}

// Fetch retrieves the feed and returns at most limit papers in feed order.
// Entries with neither GUID nor link are skipped, so every returned paper
// has a non-empty ID. An empty feed yields an empty slice and no error.
func (f *RSSFetcher) Fetch(ctx context.Context, limit int) ([]Paper, error) {
	feed, err := f.parser.ParseURLWithContext(f.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("rss: failed to fetch feed %s: %w", f.feedURL, err)
	}

	papers := make([]Paper, 0, limit)
	for _, item := range feed.Items {
		if len(papers) >= limit {
			break
		}

		id := paperID(item)
		if id == "" {
			continue
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "Untitled"
		}

		papers = append(papers, Paper{
			ID:        id,
			Title:     title,
			Link:      item.Link,
			Summary:   strings.TrimSpace(item.Description),
			Authors:   paperAuthors(item),
			Published: item.Published,
		})
	}

	return papers, nil
}

func paperID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	return item.Link
}

func paperAuthors(item *gofeed.Item) string {
	names := make([]string, 0, len(item.Authors))
	for _, a := range item.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 && item.Author != nil {
		if name := strings.TrimSpace(item.Author.Name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "Unknown"
	}
	return strings.Join(names, ", ")
}
