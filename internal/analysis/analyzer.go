package analysis

import (
	"context"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

// Analyzer turns a parsed table into an analysis result
type Analyzer interface {
	// Type returns the analysis type identifier
	Type() string
	// Analyze runs the whole pipeline. It never returns nil; failures are
	// reported through Success and Error.
	Analyze(ctx context.Context) *domain.AnalysisResult
	// ValidateBusinessRules returns only the validation report
	ValidateBusinessRules(ctx context.Context) (domain.ValidationReport, error)
	// ChartData returns only the chart series
	ChartData(ctx context.Context) (domain.ChartData, error)
}

// Options tune analyzer behaviour
type Options struct {
	// CheckCancellations enables the uncancelled invalid cargo rule
	CheckCancellations bool
}

// Factory builds an analyzer for a table
type Factory func(table *domain.Table, opts Options) (Analyzer, error)

// Detector reports whether an analyzer can handle the table
type Detector func(table *domain.Table) bool

// Definition is one registry entry
type Definition struct {
	Type    string
	Factory Factory
	Detect  Detector
}
