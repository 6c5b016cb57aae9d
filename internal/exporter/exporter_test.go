package exporter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

func sampleResult() *domain.AnalysisResult {
	earliest, latest := "2024-01-15", "2024-03-01"
	estado := domain.IntStatus(2)

	return &domain.AnalysisResult{
		Success:      true,
		AnalysisType: domain.AnalysisTypeContraidos,
		Summary: &domain.Summary{
			TotalOperations:   3,
			ArqueoCount:       1,
			CargoCount:        2,
			ValidCargoCount:   1,
			InvalidCargoCount: 1,
			UniqueContraidos:  2,
			DateRange:         domain.DateRange{Earliest: &earliest, Latest: &latest},
		},
		Details: &domain.AnalysisDetails{
			ByContraido: []domain.ContraidoGroup{
				{
					Contraido:      "2024/000123",
					Operations:     []domain.OperationSummary{{Number: 1}, {Number: 2}},
					TotalArqueo:    1000,
					NetBalance:     1000,
					NeedsAttention: true,
				},
				{
					Contraido:       "2024/000200",
					Operations:      []domain.OperationSummary{{Number: 3}},
					TotalCargoValid: 0,
					NetBalance:      0,
				},
			},
			Calculations: domain.Totals{
				TotalArqueoPositive: 1000,
				TotalCargoNegative:  250.5,
				TotalCargoInvalid:   99.5,
				NetBalance:          749.5,
				PercentageInvalid:   28.43,
			},
		},
		Validation: &domain.ValidationReport{
			Issues: []domain.ValidationIssue{{
				Type:      domain.IssueInvalidCargo,
				Severity:  domain.SeverityCritical,
				Operation: 2,
				Contraido: "2024/000123",
				Amount:    99.5,
				Estado:    &estado,
				Message:   "Operación M;P con estado '2' != 4 (incompleta/cancelada)",
			}},
			Warnings: []domain.ValidationWarning{{
				Type:      domain.WarningPositiveBalance,
				Severity:  domain.SeverityWarning,
				Contraido: "2024/000123",
				Balance:   1000,
				Message:   "Contraído con saldo positivo: €1000.00",
			}},
			TotalIssues:   1,
			TotalWarnings: 1,
		},
	}
}

func sampleTable() *domain.Table {
	return &domain.Table{
		Columns: []string{domain.ColOperationNumber, domain.ColPhase, domain.ColAmount},
		Rows: []domain.Row{
			{domain.ColOperationNumber: int64(1), domain.ColPhase: "AINP", domain.ColAmount: 1000.0},
			{domain.ColOperationNumber: int64(2), domain.ColPhase: "M;P", domain.ColAmount: nil},
		},
	}
}

func readSheet(t *testing.T, path, name string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(name)
	require.NoError(t, err)
	return rows
}

func sheetNames(t *testing.T, path string) []string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	return f.GetSheetList()
}

func TestWriteAnalysisWorkbook(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*domain.AnalysisResult)
		original   *domain.Table
		wantSheets []string
	}{
		{
			name:       "all sheets",
			original:   sampleTable(),
			wantSheets: []string{SheetSummary, SheetCalculations, SheetIssues, SheetWarnings, SheetOriginal},
		},
		{
			name: "clean analysis without original data",
			mutate: func(r *domain.AnalysisResult) {
				r.Validation = &domain.ValidationReport{IsValid: true}
			},
			wantSheets: []string{SheetSummary, SheetCalculations},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sampleResult()
			if tt.mutate != nil {
				tt.mutate(result)
			}
			path := filepath.Join(t.TempDir(), "out", "analysis.xlsx")

			require.NoError(t, NewExcelExporter(nil).WriteAnalysisWorkbook(path, result, tt.original))
			assert.Equal(t, tt.wantSheets, sheetNames(t, path))

			summary := readSheet(t, path, SheetSummary)
			assert.Equal(t, []string{"Métrica", "Valor"}, summary[0])
			assert.Equal(t, []string{"total_operations", "3"}, summary[1])
			assert.Equal(t, []string{"date_range", "2024-01-15 / 2024-03-01"}, summary[7])

			calcs := readSheet(t, path, SheetCalculations)
			assert.Equal(t, []string{"net_balance", "749.5"}, calcs[4])
		})
	}
}

func TestWriteAnalysisWorkbookIssueColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.xlsx")
	require.NoError(t, NewExcelExporter(nil).WriteAnalysisWorkbook(path, sampleResult(), sampleTable()))

	issues := readSheet(t, path, SheetIssues)
	require.Len(t, issues, 2)
	assert.Equal(t, []string{"type", "severity", "operation", "contraido", "amount", "estado", "message"}, issues[0])
	assert.Equal(t, "INVALID_CARGO", issues[1][0])
	assert.Equal(t, "2", issues[1][5])

	original := readSheet(t, path, SheetOriginal)
	require.Len(t, original, 3)
	assert.Equal(t, []string{"Nº Operación", "FASE", "Importe"}, original[0])
	assert.Equal(t, []string{"2", "M;P"}, original[2])
}

func TestWriteContraidosWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contraidos_analysis.xlsx")
	require.NoError(t, NewExcelExporter(nil).WriteContraidosWorkbook(path, sampleResult(), sampleTable()))

	assert.Equal(t, []string{SheetOriginalData, SheetSummary, SheetByContraido, SheetIssues}, sheetNames(t, path))

	summary := readSheet(t, path, SheetSummary)
	require.Len(t, summary, 8)
	assert.Equal(t, []string{"Operaciones M;P Válidas", "1"}, summary[3])
	assert.Equal(t, []string{"Balance Neto (€)", "749.5"}, summary[7])

	byContraido := readSheet(t, path, SheetByContraido)
	require.Len(t, byContraido, 3)
	assert.Equal(t, ContraidoHeaders, byContraido[0])
	assert.Equal(t, []string{"2024/000123", "1000", "0", "0", "1000", "2", "Sí"}, byContraido[1])
	assert.Equal(t, "No", byContraido[2][6])

	issues := readSheet(t, path, SheetIssues)
	assert.Equal(t, []string{"Tipo", "Operación", "Contraído", "Importe", "Descripción"}, issues[0])
	assert.Equal(t, "2024/000123", issues[1][2])
}

func TestWriteContraidosWorkbookRejectsFailedResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.xlsx")
	err := NewExcelExporter(nil).WriteContraidosWorkbook(path, &domain.AnalysisResult{Error: "Analysis error: boom"}, nil)
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]any{"message": "Contraído con saldo positivo: €1.00 <ok>"}))

	out := buf.String()
	assert.Contains(t, out, "Contraído con saldo positivo: €1.00 <ok>")
	assert.True(t, strings.HasPrefix(out, "{\n  \""))
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "analysis.json")
	require.NoError(t, WriteJSONFile(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "contraidos", decoded["analysis_type"])
}

func TestExportByContraido(t *testing.T) {
	dir := t.TempDir()
	exp := NewContraidoExporter(dir)

	require.NoError(t, exp.ExportByContraido(sampleResult().Details.ByContraido, "contraidos.csv"))

	data, err := os.ReadFile(filepath.Join(dir, "contraidos.csv"))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM))

	lines := strings.Split(strings.TrimSpace(string(data[len(utf8BOM):])), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(ContraidoHeaders, ","), lines[0])
	assert.Equal(t, "2024/000123,1000.00,0.00,0.00,1000.00,2,Sí", lines[1])
	assert.Equal(t, "2024/000200,0.00,0.00,0.00,0.00,1,No", lines[2])
}

func TestWriteSimpleCSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "taken.csv"), 0755))

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "relative path", path: "nested/out.csv"},
		{name: "absolute path", path: filepath.Join(dir, "abs.csv")},
		{name: "overwrites existing file", path: "nested/out.csv"},
		{name: "path is a directory", path: "taken.csv", wantErr: true},
	}

	w := NewCSVWriter(dir)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.WriteSimpleCSV(tt.path, []string{"a", "b"}, [][]string{{"1", "2"}})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			data, err := os.ReadFile(w.resolvePath(tt.path))
			require.NoError(t, err)
			assert.Equal(t, string(utf8BOM)+"a,b\n1,2\n", string(data))
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "13.40", formatFloat(13.4))
	assert.Equal(t, "7", formatInt(7))
	assert.Equal(t, "- / -", formatDateRange(domain.DateRange{}))
	assert.Nil(t, cellValue(nil))
	assert.Equal(t, "x", cellValue("x"))
}
