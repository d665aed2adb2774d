package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bryanwahyu/factsense/internal/application"
	appstats "github.com/bryanwahyu/factsense/internal/application/stats"
	domain "github.com/bryanwahyu/factsense/internal/domain/analysis"
	statsdomain "github.com/bryanwahyu/factsense/internal/domain/stats"
)

const (
	defaultMaxInputBytes   = 64 * 1024
	defaultClassifyTimeout = 30 * time.Second
)

// Service implements use-cases untuk Analysis.
// Stateless per request; aman dipanggil konkuren tanpa batas,
// satu-satunya shared state adalah Repo.
type Service struct {
	Repo       domain.Repository
	Classifier domain.Classifier
	Stats      *appstats.Engine
	Archive    domain.PayloadArchive // optional, boleh nil
	Clock      application.Clock

	// MaxInputBytes batas ukuran inputData; 0 = pakai default 64 KiB.
	MaxInputBytes int
	// ClassifyTimeout batas durasi satu panggilan Classify; 0 = default 30s.
	ClassifyTimeout time.Duration
}

//
// ==== USE CASES ====
//

// Command untuk analyze
type AnalyzeCommand struct {
	InputType string
	InputData string
	Metadata  *domain.RequestMetadata
}

// Analyze: validasi → classify (dengan timeout) → archive payload media → insert.
// Record yang dibalikin sudah lengkap (ID + CreatedAt dari store).
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*domain.Analysis, error) {
	inputType, ok := domain.ParseInputType(cmd.InputType)
	if !ok {
		return nil, domain.NewValidationError(
			"invalid inputType: %q (allowed: text, image, video, voice)", cmd.InputType)
	}
	if strings.TrimSpace(cmd.InputData) == "" {
		return nil, domain.NewValidationError("inputData cannot be empty")
	}
	maxBytes := s.MaxInputBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxInputBytes
	}
	if len(cmd.InputData) > maxBytes {
		return nil, domain.NewValidationError(
			"inputData exceeds maximum size of %d bytes", maxBytes)
	}

	timeout := s.ClassifyTimeout
	if timeout <= 0 {
		timeout = defaultClassifyTimeout
	}

	// classifier bisa blocking (CPU atau network), jadi dibatasi timeout
	// supaya request lain tidak ikut macet
	start := s.Clock.Now()
	cctx, cancel := context.WithTimeout(ctx, timeout)
	res, err := s.Classifier.Classify(cctx, inputType, cmd.InputData)
	cancel()
	if err != nil {
		var cerr *domain.ClassificationError
		if errors.As(err, &cerr) {
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.ClassificationError{Reason: "timed out", Err: err}
		}
		return nil, &domain.ClassificationError{Reason: "classifier error", Err: err}
	}
	elapsed := s.Clock.Now().Sub(start).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}

	record := &domain.Analysis{
		InputType:        inputType,
		InputData:        cmd.InputData,
		Verdict:          res.Verdict,
		SourceClassifier: res.SourceClassifier,
		ClassifiedType:   res.ClassifiedType,
		Sources:          res.Sources,
		RelatedNews:      res.RelatedNews,
		Statistics:       res.Statistics,
		ProcessingTimeMS: elapsed,
		Metadata:         cmd.Metadata,
	}

	// payload media diarsip ke object storage kalau archive dikonfigurasi;
	// gagal arsip tidak menggagalkan analisis
	if s.Archive != nil && inputType != domain.InputText {
		key := fmt.Sprintf("payloads/%s/%d", inputType, start.UTC().UnixNano())
		url, aerr := s.Archive.Archive(ctx, key, inputType, cmd.InputData)
		if aerr != nil {
			log.Printf("payload archive failed for type=%s: %v", inputType, aerr)
		} else {
			record.ArchiveURL = url
		}
	}

	stored, err := s.Repo.Insert(ctx, record)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// History ambil satu halaman proyeksi ringan, urut createdAt turun.
func (s *Service) History(ctx context.Context, page, limit int) (domain.PaginatedResult, error) {
	if limit <= 0 {
		return domain.PaginatedResult{}, domain.NewValidationError("limit must be greater than 0")
	}
	if page <= 0 {
		page = 1
	}
	return s.Repo.Paginate(ctx, page, limit)
}

// Summary delegasi ke statistics engine untuk satu window.
func (s *Service) Summary(ctx context.Context, window statsdomain.Window) (*statsdomain.Snapshot, error) {
	return s.Stats.Compute(ctx, window)
}

// Get ambil 1 analysis by id; ErrNotFound kalau tidak ada.
func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, id)
}
