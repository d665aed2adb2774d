package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	domain "github.com/bryanwahyu/factsense/internal/domain/analysis"
)

// stepClock maju tiap kali Now() dipanggil, supaya createdAt unik
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{
		t:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		step: time.Second,
	}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}

func sampleAnalysis(t *testing.T, category string, misinfo bool) *domain.Analysis {
	t.Helper()
	return &domain.Analysis{
		InputType:        domain.InputText,
		InputData:        "sample claim",
		Verdict:          domain.Verdict{IsMisinfo: misinfo, Confidence: 88.5},
		SourceClassifier: "pattern-matcher",
		ClassifiedType:   category,
		Sources:          []string{"bbc.com"},
	}
}

func TestInsertAssignsIDAndCreatedAt(t *testing.T) {
	repo := NewAnalysisRepository(newStepClock())

	in := sampleAnalysis(t, "Politics", true)
	stored, err := repo.Insert(context.Background(), in)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if stored.ID == "" {
		t.Error("expected non-empty ID")
	}
	if stored.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if in.ID != "" {
		t.Error("input record should not be mutated")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	repo := NewAnalysisRepository(newStepClock())
	stored, _ := repo.Insert(context.Background(), sampleAnalysis(t, "Health", false))

	got, err := repo.Get(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != stored.ID {
		t.Errorf("ID = %s, want %s", got.ID, stored.ID)
	}

	// mutasi hasil Get tidak boleh bocor ke store
	got.ClassifiedType = "changed"
	again, _ := repo.Get(context.Background(), stored.ID)
	if again.ClassifiedType != "Health" {
		t.Errorf("stored record mutated, ClassifiedType = %s", again.ClassifiedType)
	}
}

func TestGetNotFound(t *testing.T) {
	repo := NewAnalysisRepository(newStepClock())
	_, err := repo.Get(context.Background(), domain.ID("does-not-exist"))
	if err != domain.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPaginateOrderAndPages(t *testing.T) {
	repo := NewAnalysisRepository(newStepClock())
	ctx := context.Background()

	var ids []domain.ID
	for i := 0; i < 5; i++ {
		stored, err := repo.Insert(ctx, sampleAnalysis(t, "General", i%2 == 0))
		if err != nil {
			t.Fatalf("Insert #%d: %v", i, err)
		}
		ids = append(ids, stored.ID)
	}

	result, err := repo.Paginate(ctx, 2, 2)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if result.Total != 5 {
		t.Errorf("Total = %d, want 5", result.Total)
	}
	if result.Pages != 3 {
		t.Errorf("Pages = %d, want 3", result.Pages)
	}
	if len(result.Data) != 2 {
		t.Fatalf("len(Data) = %d, want 2", len(result.Data))
	}
	// urutan desc: halaman 2 berisi record ke-3 dan ke-2
	if result.Data[0].ID != ids[2] || result.Data[1].ID != ids[1] {
		t.Errorf("page 2 = [%s %s], want [%s %s]",
			result.Data[0].ID, result.Data[1].ID, ids[2], ids[1])
	}
	if !result.Data[0].CreatedAt.After(result.Data[1].CreatedAt) {
		t.Error("expected createdAt descending within page")
	}
}

func TestPaginatePastEnd(t *testing.T) {
	repo := NewAnalysisRepository(newStepClock())
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		repo.Insert(ctx, sampleAnalysis(t, "Sports", false))
	}

	result, err := repo.Paginate(ctx, 10, 2)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(result.Data) != 0 {
		t.Errorf("len(Data) = %d, want 0", len(result.Data))
	}
	if result.Data == nil {
		t.Error("Data should be empty slice, not nil")
	}
	if result.Total != 3 {
		t.Errorf("Total = %d, want 3", result.Total)
	}
}

func TestPaginateDefaults(t *testing.T) {
	repo := NewAnalysisRepository(newStepClock())
	result, err := repo.Paginate(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if result.Page != 1 {
		t.Errorf("Page = %d, want 1", result.Page)
	}
	if result.Limit != 20 {
		t.Errorf("Limit = %d, want 20", result.Limit)
	}
}

func TestSinceFiltersAndSortsAscending(t *testing.T) {
	clock := newStepClock()
	repo := NewAnalysisRepository(clock)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := repo.Insert(ctx, sampleAnalysis(t, "Finance", false)); err != nil {
			t.Fatalf("Insert #%d: %v", i, err)
		}
	}

	// ambil 2 record terakhir saja
	cutoff := clock.t.Add(-time.Second - 500*time.Millisecond)
	out, err := repo.Since(ctx, cutoff)
	if err != nil {
		t.Fatalf("Since: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if !out[0].CreatedAt.Before(out[1].CreatedAt) {
		t.Error("expected ascending createdAt order")
	}
}

func TestConcurrentInserts(t *testing.T) {
	repo := NewAnalysisRepository(newStepClock())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Insert(ctx, sampleAnalysis(t, "Technology", false)); err != nil {
				t.Errorf("Insert: %v", err)
			}
		}()
	}
	wg.Wait()

	result, err := repo.Paginate(ctx, 1, 100)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if result.Total != 20 {
		t.Errorf("Total = %d, want 20", result.Total)
	}

	seen := map[domain.ID]bool{}
	for _, s := range result.Data {
		if seen[s.ID] {
			t.Errorf("duplicate ID %s", s.ID)
		}
		seen[s.ID] = true
	}
}
