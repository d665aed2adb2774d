package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	appstats "github.com/bryanwahyu/factsense/internal/application/stats"
	domain "github.com/bryanwahyu/factsense/internal/domain/analysis"
	memorydb "github.com/bryanwahyu/factsense/internal/infra/db/memory"
)

// stepClock maju per panggilan Now supaya processing time dan ordering deterministik
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func newStepClock(step time.Duration) *stepClock {
	return &stepClock{
		t:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		step: step,
	}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}

type fixedClassifier struct {
	res *domain.Result
	err error
}

func (f *fixedClassifier) Classify(ctx context.Context, input domain.InputType, data string) (*domain.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

type recordingArchive struct {
	key string
	err error
}

func (a *recordingArchive) Archive(ctx context.Context, key string, input domain.InputType, data string) (string, error) {
	a.key = key
	if a.err != nil {
		return "", a.err
	}
	return "https://files.local/" + key, nil
}

func newTestService(t *testing.T, c domain.Classifier) *Service {
	t.Helper()
	clock := newStepClock(5 * time.Millisecond)
	repo := memorydb.NewAnalysisRepository(clock)
	return &Service{
		Repo:       repo,
		Classifier: c,
		Stats:      &appstats.Engine{Repo: repo, Clock: clock},
		Clock:      clock,
	}
}

func okResult() *domain.Result {
	return &domain.Result{
		Verdict:          domain.Verdict{IsMisinfo: true, Confidence: 91.2},
		SourceClassifier: "source-checker",
		ClassifiedType:   "Politics",
		Sources:          []string{"bbc.com", "reuters.com"},
	}
}

func TestAnalyzeRejectsInvalidInputType(t *testing.T) {
	svc := newTestService(t, &fixedClassifier{res: okResult()})

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{InputType: "audio", InputData: "hello"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if !strings.Contains(verr.Msg, "audio") {
		t.Errorf("message should name the rejected type, got %q", verr.Msg)
	}
}

func TestAnalyzeRejectsEmptyInput(t *testing.T) {
	svc := newTestService(t, &fixedClassifier{res: okResult()})

	for _, data := range []string{"", "   ", "\n\t"} {
		_, err := svc.Analyze(context.Background(), AnalyzeCommand{InputType: "text", InputData: data})
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("data %q: err = %v, want ValidationError", data, err)
		}
	}
}

func TestAnalyzeRejectsOversizedInput(t *testing.T) {
	svc := newTestService(t, &fixedClassifier{res: okResult()})
	svc.MaxInputBytes = 10

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{InputType: "text", InputData: strings.Repeat("x", 11)})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestAnalyzeStoresCompleteRecord(t *testing.T) {
	svc := newTestService(t, &fixedClassifier{res: okResult()})

	meta := &domain.RequestMetadata{UserAgent: "curl/8.0", IPAddress: "10.0.0.1"}
	rec, err := svc.Analyze(context.Background(), AnalyzeCommand{
		InputType: "text",
		InputData: "breaking: moon made of cheese",
		Metadata:  meta,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if rec.ID == "" {
		t.Error("expected non-empty ID")
	}
	if rec.InputType != domain.InputText {
		t.Errorf("InputType = %s, want text", rec.InputType)
	}
	if !rec.Verdict.IsMisinfo || rec.Verdict.Confidence != 91.2 {
		t.Errorf("verdict = %+v, want classifier verdict", rec.Verdict)
	}
	if rec.ClassifiedType != "Politics" {
		t.Errorf("ClassifiedType = %s, want Politics", rec.ClassifiedType)
	}
	// dua Now() berurutan, step 5ms
	if rec.ProcessingTimeMS != 5 {
		t.Errorf("ProcessingTimeMS = %d, want 5", rec.ProcessingTimeMS)
	}
	if rec.Metadata == nil || rec.Metadata.IPAddress != "10.0.0.1" {
		t.Errorf("Metadata = %+v, want propagated metadata", rec.Metadata)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := svc.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Get after insert: %v", err)
	}
	if got.ID != rec.ID {
		t.Errorf("roundtrip ID = %s, want %s", got.ID, rec.ID)
	}
}

func TestAnalyzeWrapsClassifierFailure(t *testing.T) {
	svc := newTestService(t, &fixedClassifier{err: fmt.Errorf("model unavailable")})

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{InputType: "text", InputData: "claim"})
	var cerr *domain.ClassificationError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want ClassificationError", err)
	}
}

func TestAnalyzePassesThroughClassificationError(t *testing.T) {
	orig := &domain.ClassificationError{Reason: "unsupported input"}
	svc := newTestService(t, &fixedClassifier{err: orig})

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{InputType: "text", InputData: "claim"})
	var cerr *domain.ClassificationError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want ClassificationError", err)
	}
	if cerr.Reason != "unsupported input" {
		t.Errorf("Reason = %q, want original preserved", cerr.Reason)
	}
}

func TestAnalyzeArchivesMediaPayload(t *testing.T) {
	svc := newTestService(t, &fixedClassifier{res: okResult()})
	archive := &recordingArchive{}
	svc.Archive = archive

	rec, err := svc.Analyze(context.Background(), AnalyzeCommand{InputType: "image", InputData: "base64payload"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if archive.key == "" {
		t.Fatal("expected archive to be called for image input")
	}
	if !strings.HasPrefix(archive.key, "payloads/image/") {
		t.Errorf("key = %q, want payloads/image/ prefix", archive.key)
	}
	if rec.ArchiveURL == "" {
		t.Error("expected ArchiveURL to be set")
	}
}

func TestAnalyzeSkipsArchiveForText(t *testing.T) {
	svc := newTestService(t, &fixedClassifier{res: okResult()})
	archive := &recordingArchive{}
	svc.Archive = archive

	if _, err := svc.Analyze(context.Background(), AnalyzeCommand{InputType: "text", InputData: "claim"}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if archive.key != "" {
		t.Errorf("archive called for text input with key %q", archive.key)
	}
}

func TestAnalyzeArchiveFailureIsNonFatal(t *testing.T) {
	svc := newTestService(t, &fixedClassifier{res: okResult()})
	svc.Archive = &recordingArchive{err: fmt.Errorf("bucket gone")}

	rec, err := svc.Analyze(context.Background(), AnalyzeCommand{InputType: "video", InputData: "clip"})
	if err != nil {
		t.Fatalf("Analyze should succeed despite archive failure: %v", err)
	}
	if rec.ArchiveURL != "" {
		t.Errorf("ArchiveURL = %q, want empty on archive failure", rec.ArchiveURL)
	}
}

func TestHistoryRejectsNonPositiveLimit(t *testing.T) {
	svc := newTestService(t, &fixedClassifier{res: okResult()})

	for _, limit := range []int{0, -1} {
		_, err := svc.History(context.Background(), 1, limit)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("limit %d: err = %v, want ValidationError", limit, err)
		}
	}
}

func TestHistoryPagination(t *testing.T) {
	svc := newTestService(t, &fixedClassifier{res: okResult()})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Analyze(ctx, AnalyzeCommand{InputType: "text", InputData: fmt.Sprintf("claim %d", i)}); err != nil {
			t.Fatalf("Analyze #%d: %v", i, err)
		}
	}

	result, err := svc.History(ctx, 2, 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(result.Data) != 2 {
		t.Errorf("len(Data) = %d, want 2", len(result.Data))
	}
	if result.Total != 5 || result.Pages != 3 {
		t.Errorf("Total/Pages = %d/%d, want 5/3", result.Total, result.Pages)
	}

	// page di luar range diam-diam dinormalisasi ke 1
	result, err = svc.History(ctx, -3, 2)
	if err != nil {
		t.Fatalf("History negative page: %v", err)
	}
	if result.Page != 1 {
		t.Errorf("Page = %d, want 1", result.Page)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(t, &fixedClassifier{res: okResult()})

	_, err := svc.Get(context.Background(), domain.ID("missing"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
