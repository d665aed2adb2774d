package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/factsense/internal/application"
	domain "github.com/bryanwahyu/factsense/internal/domain/analysis"
)

// AnalysisRepository in-memory implementation dari domain.Repository.
// Dipakai untuk mode dev dan test; kontrak ordering sama dengan
// implementasi SQL: total order (createdAt, id) naik, listing dibalik.
type AnalysisRepository struct {
	mu      sync.RWMutex
	records []*domain.Analysis
	clock   application.Clock
}

func NewAnalysisRepository(clock application.Clock) *AnalysisRepository {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &AnalysisRepository{clock: clock}
}

// Insert assign ID + CreatedAt, simpan copy supaya record immutable dari luar
func (r *AnalysisRepository) Insert(ctx context.Context, a *domain.Analysis) (*domain.Analysis, error) {
	stored := *a
	stored.ID = domain.ID(uuid.New().String())
	stored.CreatedAt = r.clock.Now().UTC()

	r.mu.Lock()
	r.records = append(r.records, &stored)
	r.mu.Unlock()

	out := stored
	return &out, nil
}

func (r *AnalysisRepository) Get(ctx context.Context, id domain.ID) (*domain.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.ID == id {
			out := *rec
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *AnalysisRepository) Paginate(ctx context.Context, page, limit int) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	sorted := make([]*domain.Analysis, len(r.records))
	copy(sorted, r.records)
	r.mu.RUnlock()

	// createdAt desc, tie-break id desc (kebalikan total order)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})

	total := int64(len(sorted))
	start := (page - 1) * limit
	end := start + limit
	if start > len(sorted) {
		start = len(sorted)
	}
	if end > len(sorted) {
		end = len(sorted)
	}

	summaries := []*domain.Summary{}
	for _, rec := range sorted[start:end] {
		summaries = append(summaries, &domain.Summary{
			ID:         rec.ID,
			InputType:  rec.InputType,
			IsMisinfo:  rec.Verdict.IsMisinfo,
			Confidence: rec.Verdict.Confidence,
			CreatedAt:  rec.CreatedAt,
		})
	}

	return domain.PaginatedResult{
		Data:  summaries,
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (r *AnalysisRepository) Since(ctx context.Context, since time.Time) ([]*domain.Analysis, error) {
	r.mu.RLock()
	var out []*domain.Analysis
	for _, rec := range r.records {
		if !rec.CreatedAt.Before(since) {
			c := *rec
			out = append(out, &c)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
