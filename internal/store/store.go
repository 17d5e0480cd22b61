package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ai15/dash-ingest/internal/analyzer"
	"github.com/ai15/dash-ingest/internal/config"
	"github.com/ai15/dash-ingest/internal/fetcher"
)

// SourceLabel is the constant source tag written with every record.
const SourceLabel = "Harvard DASH"

// maxStoredSummaryLen bounds the feed summary column.
const maxStoredSummaryLen = 500

// PaperRecord is one row of the destination table, keyed by PaperID.
// AIFindings, AIKeywords and Metadata are stored as serialized JSON strings.
type PaperRecord struct {
	PaperID        string `json:"paper_id"`
	Title          string `json:"title"`
	Authors        string `json:"authors"`
	PublishedDate  string `json:"published_date"`
	Link           string `json:"link"`
	Summary        string `json:"summary"`
	AITopic        string `json:"ai_topic"`
	AIFindings     string `json:"ai_findings"`
	AIMethodology  string `json:"ai_methodology"`
	AISignificance string `json:"ai_significance"`
	AIKeywords     string `json:"ai_keywords"`
	ProcessedAt    string `json:"processed_at"`
	Source         string `json:"source"`
	Metadata       string `json:"metadata"`
}

// Store upserts paper records into a destination table. Upserting the same
// PaperID twice replaces the existing row rather than creating a duplicate.
type Store interface {
	Upsert(ctx context.Context, record *PaperRecord) error
}

// NewPaperRecord builds the destination row for an analyzed paper.
// ProcessedAt is stamped with the current UTC time.
func NewPaperRecord(paper fetcher.Paper, analysis *analyzer.Analysis, metadata map[string]string) *PaperRecord {
	summary := paper.Summary
	if len(summary) > maxStoredSummaryLen {
		summary = summary[:maxStoredSummaryLen]
	}

	return &PaperRecord{
		PaperID:        paper.ID,
		Title:          paper.Title,
		Authors:        paper.Authors,
		PublishedDate:  paper.Published,
		Link:           paper.Link,
		Summary:        summary,
		AITopic:        analysis.Topic,
		AIFindings:     marshalStrings(analysis.Findings),
		AIMethodology:  analysis.Methodology,
		AISignificance: analysis.Significance,
		AIKeywords:     marshalStrings(analysis.Keywords),
		ProcessedAt:    time.Now().UTC().Format(time.RFC3339),
		Source:         SourceLabel,
		Metadata:       marshalMetadata(metadata),
	}
}

func marshalStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func marshalMetadata(metadata map[string]string) string {
	if metadata == nil {
		metadata = map[string]string{}
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// New creates a new store based on the configuration
func New(cfg *config.Config) (Store, error) {
	switch cfg.Store.Type {
	case "supabase":
		return NewSupabaseStore(cfg.Store.Supabase.URL, cfg.Store.Supabase.Key, cfg.Store.Table), nil
	case "postgres":
		return NewPostgresStore(cfg.Store.Postgres.DSN, cfg.Store.Table)
	case "stdout":
		return NewStdoutStore(), nil
	default:
		return nil, ErrUnsupportedStoreType
	}
}

// ErrUnsupportedStoreType is returned when an unsupported store type is specified
var ErrUnsupportedStoreType = fmt.Errorf("unsupported store type")
