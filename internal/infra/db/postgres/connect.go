package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	const q = `
CREATE TABLE IF NOT EXISTS analysis_results (
  id                VARCHAR(36) PRIMARY KEY,
  input_type        VARCHAR(16)   NOT NULL,
  input_data        TEXT          NOT NULL,
  is_misinfo        BOOLEAN       NOT NULL,
  confidence        DOUBLE PRECISION NOT NULL,
  source_classifier VARCHAR(128)  NOT NULL,
  classified_type   VARCHAR(64)   NOT NULL,
  sources_json      JSONB         NOT NULL,
  related_news_json JSONB         NOT NULL,
  stats_json        JSONB         NOT NULL,
  processing_ms     BIGINT        NOT NULL DEFAULT 0,
  user_agent        VARCHAR(512)  NULL,
  ip_address        VARCHAR(64)   NULL,
  archive_url       VARCHAR(1024) NULL,
  created_at        TIMESTAMPTZ   NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_results_created_at ON analysis_results (created_at);`
	_, err := db.ExecContext(ctx, q)
	return err
}
