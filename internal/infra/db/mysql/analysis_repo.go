package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/factsense/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Insert assign ID + CreatedAt lalu simpan record.
// Single statement insert; record tidak pernah di-update setelahnya.
func (r *AnalysisRepository) Insert(ctx context.Context, a *domain.Analysis) (*domain.Analysis, error) {
	const q = `
INSERT INTO analysis_results
(id, input_type, input_data, is_misinfo, confidence,
 source_classifier, classified_type, sources_json, related_news_json, stats_json,
 processing_ms, user_agent, ip_address, archive_url, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);
`
	stored := *a
	stored.ID = domain.ID(uuid.New().String())
	stored.CreatedAt = time.Now().UTC()

	sourcesJSON, err := marshalJSON(stored.Sources)
	if err != nil {
		return nil, &domain.StorageError{Op: "insert", Err: err}
	}
	newsJSON, err := marshalJSON(stored.RelatedNews)
	if err != nil {
		return nil, &domain.StorageError{Op: "insert", Err: err}
	}
	statsJSON, err := marshalJSON(stored.Statistics)
	if err != nil {
		return nil, &domain.StorageError{Op: "insert", Err: err}
	}

	var userAgent, ipAddress sql.NullString
	if stored.Metadata != nil {
		userAgent = nullString(stored.Metadata.UserAgent)
		ipAddress = nullString(stored.Metadata.IPAddress)
	}

	_, err = r.db.ExecContext(ctx, q,
		stored.ID, stored.InputType, stored.InputData,
		stored.Verdict.IsMisinfo, stored.Verdict.Confidence,
		stringOrDash(stored.SourceClassifier), stringOrDash(stored.ClassifiedType),
		sourcesJSON, newsJSON, statsJSON,
		stored.ProcessingTimeMS, userAgent, ipAddress,
		nullString(stored.ArchiveURL), stored.CreatedAt,
	)
	if err != nil {
		return nil, &domain.StorageError{Op: "insert", Err: err}
	}
	return &stored, nil
}

// Get by ID
func (r *AnalysisRepository) Get(ctx context.Context, id domain.ID) (*domain.Analysis, error) {
	const q = `
SELECT id, input_type, input_data, is_misinfo, confidence,
       source_classifier, classified_type, sources_json, related_news_json, stats_json,
       processing_ms, user_agent, ip_address, archive_url, created_at
FROM analysis_results
WHERE id=? LIMIT 1;
`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.StorageError{Op: "get", Err: err}
	}
	return a, nil
}

// Paginate with offset + limit (classic pagination), ordered createdAt desc
func (r *AnalysisRepository) Paginate(ctx context.Context, page, limit int) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	const q = `
SELECT id, input_type, is_misinfo, confidence, created_at
FROM analysis_results
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return domain.PaginatedResult{}, &domain.StorageError{Op: "paginate", Err: err}
	}
	defer rows.Close()

	summaries := []*domain.Summary{}
	for rows.Next() {
		var s domain.Summary
		if err := rows.Scan(&s.ID, &s.InputType, &s.IsMisinfo, &s.Confidence, &s.CreatedAt); err != nil {
			return domain.PaginatedResult{}, &domain.StorageError{Op: "paginate", Err: err}
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return domain.PaginatedResult{}, &domain.StorageError{Op: "paginate", Err: err}
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analysis_results").Scan(&total); err != nil {
		return domain.PaginatedResult{}, &domain.StorageError{Op: "count", Err: err}
	}

	return domain.PaginatedResult{
		Data:  summaries,
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Since ambil semua record dengan created_at >= since, urut naik
func (r *AnalysisRepository) Since(ctx context.Context, since time.Time) ([]*domain.Analysis, error) {
	const q = `
SELECT id, input_type, input_data, is_misinfo, confidence,
       source_classifier, classified_type, sources_json, related_news_json, stats_json,
       processing_ms, user_agent, ip_address, archive_url, created_at
FROM analysis_results
WHERE created_at >= ?
ORDER BY created_at ASC, id ASC;
`
	rows, err := r.db.QueryContext(ctx, q, since)
	if err != nil {
		return nil, &domain.StorageError{Op: "since", Err: err}
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "since", Err: err}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "since", Err: err}
	}
	return out, nil
}

// rowScanner dipenuhi *sql.Row dan *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*domain.Analysis, error) {
	var (
		a                    domain.Analysis
		sourcesJSON          string
		newsJSON             string
		statsJSON            string
		userAgent, ipAddress sql.NullString
		archiveURL           sql.NullString
	)
	if err := row.Scan(
		&a.ID, &a.InputType, &a.InputData, &a.Verdict.IsMisinfo, &a.Verdict.Confidence,
		&a.SourceClassifier, &a.ClassifiedType, &sourcesJSON, &newsJSON, &statsJSON,
		&a.ProcessingTimeMS, &userAgent, &ipAddress, &archiveURL, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sourcesJSON), &a.Sources); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(newsJSON), &a.RelatedNews); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(statsJSON), &a.Statistics); err != nil {
		return nil, err
	}
	if userAgent.Valid || ipAddress.Valid {
		a.Metadata = &domain.RequestMetadata{
			UserAgent: userAgent.String,
			IPAddress: ipAddress.String,
		}
	}
	a.ArchiveURL = archiveURL.String
	return &a, nil
}
