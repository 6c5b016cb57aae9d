package contraidos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/AALVAREZG/contraidos-processor/internal/analysis"
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

// DetectionColumns are the headers that identify a contraídos table
var DetectionColumns = []string{domain.ColPhase, domain.ColOperationNumber, domain.ColAmount}

// Analyzer runs the contraídos pipeline over one table
type Analyzer struct {
	table     *domain.Table
	validator *Validator
	logger    *slog.Logger

	once   sync.Once
	cached *domain.AnalysisResult
}

var _ analysis.Analyzer = (*Analyzer)(nil)

// NewAnalyzer creates an analyzer for the table
func NewAnalyzer(table *domain.Table, opts analysis.Options, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		table:     table,
		validator: NewValidator(opts.CheckCancellations),
		logger:    logger.With(slog.String("component", "contraidos.analyzer")),
	}
}

// Factory returns an analysis.Factory building contraídos analyzers
func Factory(logger *slog.Logger) analysis.Factory {
	return func(table *domain.Table, opts analysis.Options) (analysis.Analyzer, error) {
		if table == nil {
			return nil, errors.New("nil table")
		}
		return NewAnalyzer(table, opts, logger), nil
	}
}

// CanAnalyze reports whether the table carries the contraídos detection columns
func CanAnalyze(table *domain.Table) bool {
	return table != nil && table.HasColumns(DetectionColumns...)
}

// Definition returns the registry entry for this analyzer
func Definition(logger *slog.Logger) analysis.Definition {
	return analysis.Definition{
		Type:    domain.AnalysisTypeContraidos,
		Factory: Factory(logger),
		Detect:  CanAnalyze,
	}
}

// Type returns the analysis type identifier
func (a *Analyzer) Type() string {
	return domain.AnalysisTypeContraidos
}

// Analyze runs classify, aggregate, validate, total and chart stages and
// assembles the result. Any error or panic yields a failed result.
func (a *Analyzer) Analyze(ctx context.Context) (result *domain.AnalysisResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := &AnalysisError{Stage: "pipeline", Err: fmt.Errorf("panic: %v", r)}
			a.logger.ErrorContext(ctx, "analysis panicked", slog.Any("panic", r))
			result = failedResult(err)
		}
	}()

	result, err := a.run()
	if err != nil {
		a.logger.ErrorContext(ctx, "analysis failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return failedResult(err)
	}

	a.logger.InfoContext(ctx, "analysis completed",
		slog.Int("operations", result.Summary.TotalOperations),
		slog.Int("contraidos", len(result.Details.ByContraido)),
		slog.Int("issues", result.Validation.TotalIssues),
		slog.Int("warnings", result.Validation.TotalWarnings),
		slog.Duration("duration", time.Since(start)))
	return result
}

func (a *Analyzer) run() (*domain.AnalysisResult, error) {
	ops, err := ClassifyTable(a.table)
	if err != nil {
		return nil, &AnalysisError{Stage: "classify", Err: err}
	}

	summary := Summarize(ops)
	byPhase := AggregateByPhase(ops)
	byContraido := AggregateByContraido(ops)
	validation := a.validator.Validate(ops, byContraido)
	totals := CalculateTotals(ops)
	charts := BuildChartData(byPhase, byContraido, totals)

	return &domain.AnalysisResult{
		Success:      true,
		AnalysisType: domain.AnalysisTypeContraidos,
		Summary:      &summary,
		Details: &domain.AnalysisDetails{
			ByFase:       byPhase,
			ByContraido:  byContraido,
			Calculations: totals,
		},
		Validation: &validation,
		ChartData:  &charts,
		Metadata:   maps.Clone(a.table.Metadata),
	}, nil
}

func failedResult(err error) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Success:      false,
		AnalysisType: domain.AnalysisTypeContraidos,
		Error:        fmt.Sprintf("Analysis error: %v", err),
	}
}

// Result returns the result of the first Analyze run made through this
// helper; later calls reuse it.
func (a *Analyzer) Result(ctx context.Context) *domain.AnalysisResult {
	a.once.Do(func() {
		a.cached = a.Analyze(ctx)
	})
	return a.cached
}

func (a *Analyzer) successfulResult(ctx context.Context) (*domain.AnalysisResult, error) {
	result := a.Result(ctx)
	if !result.Success {
		return nil, errors.New(result.Error)
	}
	return result, nil
}

// ValidateBusinessRules returns the validation report
func (a *Analyzer) ValidateBusinessRules(ctx context.Context) (domain.ValidationReport, error) {
	result, err := a.successfulResult(ctx)
	if err != nil {
		return domain.ValidationReport{}, err
	}
	return *result.Validation, nil
}

// ChartData returns the chart series
func (a *Analyzer) ChartData(ctx context.Context) (domain.ChartData, error) {
	result, err := a.successfulResult(ctx)
	if err != nil {
		return domain.ChartData{}, err
	}
	return *result.ChartData, nil
}

// ExportSummary returns the headline counts
func (a *Analyzer) ExportSummary(ctx context.Context) (domain.Summary, error) {
	result, err := a.successfulResult(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return *result.Summary, nil
}

// ExportFullResults returns the complete result without the success flag
func (a *Analyzer) ExportFullResults(ctx context.Context) (map[string]any, error) {
	result, err := a.successfulResult(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"analysis_type": result.AnalysisType,
		"summary":       result.Summary,
		"details":       result.Details,
		"validation":    result.Validation,
		"chart_data":    result.ChartData,
		"metadata":      result.Metadata,
	}, nil
}
