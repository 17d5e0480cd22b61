package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakePostgrest emulates the PostgREST upsert surface: rows keyed by
// paper_id, merged on conflict.
type fakePostgrest struct {
	rows     map[string]PaperRecord
	requests int
}

func newFakePostgrest() *fakePostgrest {
	return &fakePostgrest{rows: make(map[string]PaperRecord)}
}

func (f *fakePostgrest) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.requests++

		if r.Method != http.MethodPost {
			t.Errorf("Unexpected method %s", r.Method)
		}
		if r.URL.Path != "/rest/v1/harvard_papers" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("on_conflict"); got != "paper_id" {
			t.Errorf("Expected on_conflict=paper_id, got %q", got)
		}
		if got := r.Header.Get("apikey"); got != "service-role-key" {
			t.Errorf("Expected apikey header, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer service-role-key" {
			t.Errorf("Expected bearer auth, got %q", got)
		}
		if prefer := r.Header.Get("Prefer"); !strings.Contains(prefer, "resolution=merge-duplicates") {
			t.Errorf("Expected merge-duplicates Prefer header, got %q", prefer)
		}

		var rec PaperRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			t.Errorf("Failed to decode record: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if rec.PaperID == "" {
			t.Error("Record has empty paper_id")
		}
		f.rows[rec.PaperID] = rec
		w.WriteHeader(http.StatusCreated)
	}
}

func TestSupabaseUpsert(t *testing.T) {
	fake := newFakePostgrest()
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	s := NewSupabaseStore(ts.URL, "service-role-key", "harvard_papers")

	rec := NewPaperRecord(samplePaperForStore(), sampleAnalysis(), nil)
	if err := s.Upsert(context.Background(), rec); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	if len(fake.rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(fake.rows))
	}
	stored := fake.rows["urn:dash:1111"]
	if stored.Title != "A Paper" {
		t.Errorf("Unexpected stored title %q", stored.Title)
	}
}

func TestSupabaseUpsertIsIdempotent(t *testing.T) {
	fake := newFakePostgrest()
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	s := NewSupabaseStore(ts.URL, "service-role-key", "harvard_papers")

	rec := NewPaperRecord(samplePaperForStore(), sampleAnalysis(), nil)
	if err := s.Upsert(context.Background(), rec); err != nil {
		t.Fatalf("First upsert returned error: %v", err)
	}

	updated := *rec
	updated.AITopic = "Updated Topic"
	if err := s.Upsert(context.Background(), &updated); err != nil {
		t.Fatalf("Second upsert returned error: %v", err)
	}

	if fake.requests != 2 {
		t.Errorf("Expected 2 requests, got %d", fake.requests)
	}
	if len(fake.rows) != 1 {
		t.Fatalf("Expected re-upsert to update, not duplicate; got %d rows", len(fake.rows))
	}
	if fake.rows["urn:dash:1111"].AITopic != "Updated Topic" {
		t.Errorf("Expected row to be updated, got %q", fake.rows["urn:dash:1111"].AITopic)
	}
}

func TestSupabaseUpsertAuthFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid API key"}`))
	}))
	defer ts.Close()

	s := NewSupabaseStore(ts.URL, "bad-key", "harvard_papers")
	rec := NewPaperRecord(samplePaperForStore(), sampleAnalysis(), nil)

	err := s.Upsert(context.Background(), rec)
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "unexpected status 401") {
		t.Errorf("Expected 'unexpected status 401' error, got: %v", err)
	}
}
