package analyzer

import (
	"context"

	"github.com/ai15/dash-ingest/internal/fetcher"
)

// Analysis holds the structured result of analyzing one paper
type Analysis struct {
	Topic        string   `json:"topic"`
	Findings     []string `json:"findings"`
	Methodology  string   `json:"methodology"`
	Significance string   `json:"significance"`
	Keywords     []string `json:"keywords"`
}

// Analyzer is an interface for producing a structured analysis of a paper
type Analyzer interface {
	Analyze(ctx context.Context, paper fetcher.Paper) (*Analysis, error)
}
