package runner

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ai15/dash-ingest/internal/analyzer"
	"github.com/ai15/dash-ingest/internal/fetcher"
	"github.com/ai15/dash-ingest/internal/store"
)

// Summary reports the outcome of one run.
type Summary struct {
	Fetched int
	Stored  int
	Failed  int
}

// Runner orchestrates the fetch -> analyze -> upsert pipeline.
type Runner struct {
	feedURL   string
	maxPapers int
	model     string
	fetcher   fetcher.Fetcher
	analyzer  analyzer.Analyzer
	store     store.Store
}

func New(feedURL string, maxPapers int, model string, f fetcher.Fetcher, a analyzer.Analyzer, s store.Store) *Runner {
	return &Runner{
		feedURL:   feedURL,
		maxPapers: maxPapers,
		model:     model,
		fetcher:   f,
		analyzer:  a,
		store:     s,
	}
}

// Run executes the full pipeline once. A feed failure aborts the run; a
// single paper's analysis or persistence failure is counted and the loop
// continues with the next paper.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	log.Printf("Starting ingestion run %s (feed=%s, max_papers=%d)", runID, r.feedURL, r.maxPapers)

	log.Println("Fetching papers...")
	papers, err := r.fetcher.Fetch(ctx, r.maxPapers)
	if err != nil {
		return nil, fmt.Errorf("runner: fetch failed: %w", err)
	}

	summary := &Summary{Fetched: len(papers)}
	if len(papers) == 0 {
		log.Println("No papers to process")
		return summary, nil
	}
	log.Printf("Fetched %d papers", len(papers))

	metadata := map[string]string{
		"feed_url":     r.feedURL,
		"processed_by": "dash-ingest",
		"ai_model":     r.model,
		"run_id":       runID,
	}

	for i, paper := range papers {
		log.Printf("Processing paper %d/%d: %s", i+1, len(papers), shortTitle(paper.Title))

		analysis, err := r.analyzer.Analyze(ctx, paper)
		if err != nil {
			summary.Failed++
			log.Printf("WARNING: analysis failed for %s: %v", paper.ID, err)
			continue
		}

		record := store.NewPaperRecord(paper, analysis, metadata)
		if err := r.store.Upsert(ctx, record); err != nil {
			summary.Failed++
			log.Printf("WARNING: upsert failed for %s: %v", paper.ID, err)
			continue
		}
		summary.Stored++
	}

	log.Printf("Run %s complete: fetched=%d stored=%d failed=%d",
		runID, summary.Fetched, summary.Stored, summary.Failed)
	return summary, nil
}

func shortTitle(title string) string {
	if len(title) > 60 {
		return title[:60] + "..."
	}
	return title
}
