package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore upserts records directly into a Postgres table.
type PostgresStore struct {
	db    *sql.DB
	table string
}

func NewPostgresStore(dsn, table string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to open connection: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	s := &PostgresStore{db: db, table: table}
	if err := s.ensure(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to ensure schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ensure() error {
	_, err := s.db.Exec(fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    paper_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    authors TEXT,
    published_date TEXT,
    link TEXT,
    summary TEXT,
    ai_topic TEXT,
    ai_findings TEXT,
    ai_methodology TEXT,
    ai_significance TEXT,
    ai_keywords TEXT,
    processed_at TIMESTAMPTZ NOT NULL,
    source TEXT NOT NULL,
    metadata TEXT
)`, s.table))
	return err
}

func (s *PostgresStore) Upsert(ctx context.Context, record *PaperRecord) error {
	query := fmt.Sprintf(`
INSERT INTO %s (paper_id, title, authors, published_date, link, summary,
    ai_topic, ai_findings, ai_methodology, ai_significance, ai_keywords,
    processed_at, source, metadata)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (paper_id) DO UPDATE SET
    title = EXCLUDED.title,
    authors = EXCLUDED.authors,
    published_date = EXCLUDED.published_date,
    link = EXCLUDED.link,
    summary = EXCLUDED.summary,
    ai_topic = EXCLUDED.ai_topic,
    ai_findings = EXCLUDED.ai_findings,
    ai_methodology = EXCLUDED.ai_methodology,
    ai_significance = EXCLUDED.ai_significance,
    ai_keywords = EXCLUDED.ai_keywords,
    processed_at = EXCLUDED.processed_at,
    metadata = EXCLUDED.metadata`, s.table)

	_, err := s.db.ExecContext(ctx, query,
		record.PaperID, record.Title, record.Authors, record.PublishedDate,
		record.Link, record.Summary, record.AITopic, record.AIFindings,
		record.AIMethodology, record.AISignificance, record.AIKeywords,
		record.ProcessedAt, record.Source, record.Metadata,
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
