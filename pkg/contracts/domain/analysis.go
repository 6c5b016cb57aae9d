package domain

import "time"

// AnalysisTypeContraidos identifies the contraídos analyzer
const AnalysisTypeContraidos = "contraidos"

// IssueType classifies a validation finding
type IssueType string

const (
	IssueInvalidCargo      IssueType = "INVALID_CARGO"
	IssueCargoNotCancelled IssueType = "MP_WITHOUT_CANCELLATION"
	WarningPositiveBalance IssueType = "POSITIVE_BALANCE"
	WarningNegativeBalance IssueType = "NEGATIVE_BALANCE"
)

// Severity of a validation finding
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// ValidationIssue is a critical finding tied to one operation
type ValidationIssue struct {
	Type      IssueType `json:"type"`
	Severity  Severity  `json:"severity"`
	Operation int       `json:"operation"`
	Contraido string    `json:"contraido"`
	Amount    float64   `json:"amount"`
	Estado    *Status   `json:"estado,omitempty"`
	Message   string    `json:"message"`
}

// ValidationWarning is a non-blocking finding tied to one contraído
type ValidationWarning struct {
	Type      IssueType `json:"type"`
	Severity  Severity  `json:"severity"`
	Contraido string    `json:"contraido"`
	Balance   float64   `json:"balance"`
	Message   string    `json:"message"`
}

// ValidationReport is the result of applying the business rules
type ValidationReport struct {
	IsValid       bool                `json:"is_valid"`
	Issues        []ValidationIssue   `json:"issues"`
	Warnings      []ValidationWarning `json:"warnings"`
	TotalIssues   int                 `json:"total_issues"`
	TotalWarnings int                 `json:"total_warnings"`
}

// DateRange bounds the operation dates, both nil when no date parsed
type DateRange struct {
	Earliest *string `json:"earliest"`
	Latest   *string `json:"latest"`
}

// Summary holds the headline counts of an analysis
type Summary struct {
	TotalOperations   int       `json:"total_operations"`
	ArqueoCount       int       `json:"arqueo_count"`
	CargoCount        int       `json:"cargo_count"`
	ValidCargoCount   int       `json:"valid_cargo_count"`
	InvalidCargoCount int       `json:"invalid_cargo_count"`
	UniqueContraidos  int       `json:"unique_contraidos"`
	DateRange         DateRange `json:"date_range"`
}

// PieSlice is one entry of a pie chart
type PieSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// BarEntry is one entry of a category bar chart
type BarEntry struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Color    string  `json:"color"`
}

// BalanceEntry is one contraído in the top-balance chart
type BalanceEntry struct {
	Contraido string  `json:"contraido"`
	Balance   float64 `json:"balance"`
}

// PieChart is a chart made of slices
type PieChart struct {
	Type  string     `json:"type"`
	Title string     `json:"title"`
	Data  []PieSlice `json:"data"`
}

// BarChart is a chart made of category bars
type BarChart struct {
	Type  string     `json:"type"`
	Title string     `json:"title"`
	Data  []BarEntry `json:"data"`
}

// BalanceChart is a bar chart keyed by contraído
type BalanceChart struct {
	Type  string         `json:"type"`
	Title string         `json:"title"`
	Data  []BalanceEntry `json:"data"`
}

// ChartData groups every visualization series of an analysis
type ChartData struct {
	FaseDistribution PieChart     `json:"fase_distribution"`
	BalanceSummary   BarChart     `json:"balance_summary"`
	TopContraidos    BalanceChart `json:"top_contraidos"`
}

// AnalysisDetails carries the full aggregations
type AnalysisDetails struct {
	ByFase       PhaseBreakdown   `json:"by_fase"`
	ByContraido  []ContraidoGroup `json:"by_contraido"`
	Calculations Totals           `json:"calculations"`
}

// AnalysisResult is the immutable outcome of one analysis run. On failure
// only Success, AnalysisType and Error are meaningful.
type AnalysisResult struct {
	Success      bool              `json:"success"`
	AnalysisType string            `json:"analysis_type"`
	Summary      *Summary          `json:"summary,omitempty"`
	Details      *AnalysisDetails  `json:"details,omitempty"`
	Validation   *ValidationReport `json:"validation,omitempty"`
	ChartData    *ChartData        `json:"chart_data,omitempty"`
	Metadata     map[string]any    `json:"metadata,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// AnalysisStatus is the lifecycle state of a stored analysis
type AnalysisStatus string

const (
	AnalysisStatusCompleted AnalysisStatus = "completed"
)

// StoredAnalysis is an analysis result kept by the service layer
type StoredAnalysis struct {
	ID           string            `json:"analysis_id"`
	AnalysisType string            `json:"analysis_type"`
	Status       AnalysisStatus    `json:"status"`
	Summary      *Summary          `json:"summary"`
	Details      *AnalysisDetails  `json:"details"`
	Validation   *ValidationReport `json:"validation"`
	ChartData    *ChartData        `json:"chart_data"`
	Metadata     map[string]any    `json:"metadata"`
	CreatedAt    time.Time         `json:"created_at"`
}

// AnalysisSummary is the short view of a stored analysis
type AnalysisSummary struct {
	ID           string         `json:"analysis_id"`
	AnalysisType string         `json:"analysis_type"`
	Status       AnalysisStatus `json:"status"`
	Summary      *Summary       `json:"summary,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// NewStoredAnalysis keeps a successful result under id
func NewStoredAnalysis(id string, result *AnalysisResult, createdAt time.Time) *StoredAnalysis {
	return &StoredAnalysis{
		ID:           id,
		AnalysisType: result.AnalysisType,
		Status:       AnalysisStatusCompleted,
		Summary:      result.Summary,
		Details:      result.Details,
		Validation:   result.Validation,
		ChartData:    result.ChartData,
		Metadata:     result.Metadata,
		CreatedAt:    createdAt,
	}
}

// Result rebuilds the analysis result the stored entry was made from
func (s *StoredAnalysis) Result() *AnalysisResult {
	return &AnalysisResult{
		Success:      true,
		AnalysisType: s.AnalysisType,
		Summary:      s.Summary,
		Details:      s.Details,
		Validation:   s.Validation,
		ChartData:    s.ChartData,
		Metadata:     s.Metadata,
	}
}

// Brief returns the short view, with the summary counts when withSummary is set
func (s *StoredAnalysis) Brief(withSummary bool) AnalysisSummary {
	brief := AnalysisSummary{
		ID:           s.ID,
		AnalysisType: s.AnalysisType,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt,
	}
	if withSummary {
		brief.Summary = s.Summary
	}
	return brief
}
