package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AALVAREZG/contraidos-processor/internal/analysis"
	"github.com/AALVAREZG/contraidos-processor/internal/config"
	"github.com/AALVAREZG/contraidos-processor/internal/dataprocessing"
	apperrors "github.com/AALVAREZG/contraidos-processor/internal/errors"
	"github.com/AALVAREZG/contraidos-processor/internal/infrastructure"
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/events"
)

// AnalyzeOptions tune a single analysis run
type AnalyzeOptions struct {
	// AnalysisType pins the analyzer; empty means auto-detect
	AnalysisType string
	// CancellationRule overrides the configured rule when set
	CancellationRule *bool
}

// AnalysisService runs analyses over uploaded files and keeps the results
type AnalysisService struct {
	files     *FileService
	parsers   *dataprocessing.ParserRegistry
	analyzers *analysis.Registry
	store     *ResultStore
	cfg       config.AnalysisConfig
	publisher EventPublisher
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewAnalysisService creates the analysis service
func NewAnalysisService(
	fileService *FileService,
	parsers *dataprocessing.ParserRegistry,
	analyzers *analysis.Registry,
	store *ResultStore,
	cfg config.AnalysisConfig,
	publisher EventPublisher,
	metrics *infrastructure.BusinessMetrics,
	logger *slog.Logger,
) *AnalysisService {
	return &AnalysisService{
		files:     fileService,
		parsers:   parsers,
		analyzers: analyzers,
		store:     store,
		cfg:       cfg,
		publisher: publisherOrNoop(publisher),
		metrics:   metrics,
		logger:    infrastructure.WithComponent(logger, "services.analysis"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// AnalyzeUpload parses the uploaded file, runs the requested (or detected)
// analyzer and stores the result under a new analysis id
func (s *AnalysisService) AnalyzeUpload(ctx context.Context, uploadID string, opts AnalyzeOptions) (*domain.StoredAnalysis, error) {
	path, err := s.files.UploadPath(uploadID)
	if err != nil {
		return nil, err
	}

	parsed, err := s.parse(ctx, path)
	if err != nil {
		return nil, err
	}

	analyzer, err := s.analyzer(parsed.Table, opts)
	if err != nil {
		return nil, err
	}
	analysisType := analyzer.Type()

	s.publisher.Publish(ctx, events.NewEvent(events.EventAnalysisStarted, events.AnalysisEventData{
		UploadID:     uploadID,
		AnalysisType: analysisType,
	}))

	start := s.now()
	result, err := s.run(ctx, analyzer)
	duration := s.now().Sub(start)
	if err == nil && !result.Success {
		err = apperrors.NewAnalysisError("Analysis failed: "+result.Error, ErrAnalysisFailed)
	}
	if err != nil {
		s.metrics.RecordAnalysis(ctx, analysisType, duration, false, 0, 0)
		s.publisher.Publish(ctx, events.NewEvent(events.EventAnalysisFailed, events.AnalysisEventData{
			UploadID:     uploadID,
			AnalysisType: analysisType,
			Error:        err.Error(),
		}))
		s.logger.WarnContext(ctx, "analysis failed",
			slog.String("upload_id", uploadID),
			slog.String("analysis_type", analysisType),
			slog.String("error", err.Error()))
		return nil, err
	}

	stored := domain.NewStoredAnalysis(s.newID(), result, s.now())
	s.store.Put(stored, parsed.Table)

	var issues, warnings int
	if result.Validation != nil {
		issues, warnings = result.Validation.TotalIssues, result.Validation.TotalWarnings
	}
	s.metrics.RecordAnalysis(ctx, analysisType, duration, true, issues, warnings)
	s.publisher.Publish(ctx, events.NewEvent(events.EventAnalysisCompleted, events.AnalysisEventData{
		AnalysisID:    stored.ID,
		UploadID:      uploadID,
		AnalysisType:  analysisType,
		TotalIssues:   issues,
		TotalWarnings: warnings,
	}))
	s.logger.InfoContext(ctx, "analysis stored",
		slog.String("analysis_id", stored.ID),
		slog.String("upload_id", uploadID),
		slog.String("analysis_type", analysisType),
		slog.Int("issues", issues),
		slog.Int("warnings", warnings),
		slog.Duration("duration", duration))

	return stored, nil
}

// Get returns a stored analysis
func (s *AnalysisService) Get(ctx context.Context, analysisID string) (*domain.StoredAnalysis, error) {
	stored, ok := s.store.Get(analysisID)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Analysis not found: %s", analysisID), ErrAnalysisNotFound)
	}
	return stored, nil
}

// Summary returns the short view of a stored analysis, summary counts included
func (s *AnalysisService) Summary(ctx context.Context, analysisID string) (domain.AnalysisSummary, error) {
	stored, err := s.Get(ctx, analysisID)
	if err != nil {
		return domain.AnalysisSummary{}, err
	}
	return stored.Brief(true), nil
}

// List returns every stored analysis, oldest first, without summary counts
func (s *AnalysisService) List(ctx context.Context) []domain.AnalysisSummary {
	stored := s.store.List()
	out := make([]domain.AnalysisSummary, 0, len(stored))
	for _, a := range stored {
		out = append(out, a.Brief(false))
	}
	return out
}

// Types returns the registered analysis types
func (s *AnalysisService) Types() []string {
	return s.analyzers.Types()
}

func (s *AnalysisService) parse(ctx context.Context, path string) (*dataprocessing.ParseResult, error) {
	parser, err := s.parsers.ParserFor(path)
	if err != nil {
		return nil, apperrors.NewParsingError("Failed to parse file", err)
	}

	parsed, err := parser.Parse(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.NewParsingError("Failed to parse file", err)
	}
	return parsed, nil
}

func (s *AnalysisService) analyzer(table *domain.Table, opts AnalyzeOptions) (analysis.Analyzer, error) {
	analysisOpts := analysis.Options{CheckCancellations: s.cfg.CancellationRule}
	if opts.CancellationRule != nil {
		analysisOpts.CheckCancellations = *opts.CancellationRule
	}

	if opts.AnalysisType != "" {
		analyzer, err := s.analyzers.Create(opts.AnalysisType, table, analysisOpts)
		switch {
		case errors.Is(err, analysis.ErrUnknownType):
			return nil, apperrors.NewAppValidationError("Invalid analysis type", err)
		case err != nil:
			return nil, apperrors.NewAnalysisError("Analysis failed: "+err.Error(), err)
		}
		return analyzer, nil
	}

	analyzer, err := s.analyzers.Detect(table, analysisOpts)
	switch {
	case errors.Is(err, analysis.ErrNotDetected):
		return nil, apperrors.NewAnalysisError("Could not auto-detect analysis type", err)
	case err != nil:
		return nil, apperrors.NewAnalysisError("Analysis failed: "+err.Error(), err)
	}
	return analyzer, nil
}

// run executes the analyzer under the configured timeout. The analyzer keeps
// running in the background if the deadline passes first; its result is
// dropped.
func (s *AnalysisService) run(ctx context.Context, analyzer analysis.Analyzer) (*domain.AnalysisResult, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	done := make(chan *domain.AnalysisResult, 1)
	go func() {
		done <- analyzer.Analyze(ctx)
	}()

	select {
	case result := <-done:
		return result, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, ctx.Err())
	}
}
