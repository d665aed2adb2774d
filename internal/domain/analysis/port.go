package analysis

import (
	"context"
	"time"
)

// Repository port (interface untuk persistence)
type Repository interface {
	// Insert assigns ID + CreatedAt, persists, dan balikin record lengkap.
	Insert(ctx context.Context, a *Analysis) (*Analysis, error)
	Paginate(ctx context.Context, page, limit int) (PaginatedResult, error)
	Get(ctx context.Context, id ID) (*Analysis, error)
	// Since mengembalikan semua record dengan createdAt >= since,
	// urut naik (createdAt, id). Dipakai oleh statistics engine.
	Since(ctx context.Context, since time.Time) ([]*Analysis, error)
}

// Classifier port (interface untuk step klasifikasi)
// Implementasi bisa mock, rule-based, atau model remote.
type Classifier interface {
	Classify(ctx context.Context, input InputType, data string) (*Result, error)
}

// Result keluaran classifier sebelum jadi Analysis record
type Result struct {
	Verdict          Verdict
	SourceClassifier string
	ClassifiedType   string
	Sources          []string
	RelatedNews      []RelatedNews
	Statistics       ClassifierStats
}

// PayloadArchive port (penyimpanan raw payload media ke object storage)
type PayloadArchive interface {
	Archive(ctx context.Context, key string, input InputType, data string) (string, error)
}
