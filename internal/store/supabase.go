package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SupabaseStore upserts records through the Supabase PostgREST API,
// authenticated with a service-role key.
type SupabaseStore struct {
	baseURL string
	key     string
	table   string
	client  *http.Client
}

func NewSupabaseStore(baseURL, key, table string) *SupabaseStore {
	return &SupabaseStore{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		key:     key,
		table:   table,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *SupabaseStore) Upsert(ctx context.Context, record *PaperRecord) error {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("supabase: failed to marshal record: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s?on_conflict=paper_id", s.baseURL, s.table)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("supabase: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("supabase: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}
