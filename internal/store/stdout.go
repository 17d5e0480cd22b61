package store

import (
	"context"
	"fmt"
	"strings"
)

// StdoutStore prints records to stdout instead of persisting them.
// Useful for dry runs against a live feed.
type StdoutStore struct{}

func NewStdoutStore() *StdoutStore {
	return &StdoutStore{}
}

func (s *StdoutStore) Upsert(_ context.Context, record *PaperRecord) error {
	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("Paper: %s\n", record.Title)
	fmt.Printf("   ID: %s\n", record.PaperID)
	fmt.Printf("   Authors: %s\n", record.Authors)
	fmt.Printf("   Link: %s\n", record.Link)
	fmt.Printf("   Published: %s\n", record.PublishedDate)
	fmt.Println()
	fmt.Printf("   Topic: %s\n", record.AITopic)
	fmt.Printf("   Findings: %s\n", record.AIFindings)
	fmt.Printf("   Methodology: %s\n", record.AIMethodology)
	fmt.Printf("   Significance: %s\n", record.AISignificance)
	fmt.Printf("   Keywords: %s\n", record.AIKeywords)
	fmt.Println()
	fmt.Printf("   Processed: %s\n", record.ProcessedAt)
	fmt.Println(strings.Repeat("-", 72))
	return nil
}
