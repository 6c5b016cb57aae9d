package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

// Sheet names of the API workbook
const (
	SheetSummary      = "Resumen"
	SheetCalculations = "Cálculos"
	SheetIssues       = "Problemas"
	SheetWarnings     = "Advertencias"
	SheetOriginal     = "Datos Originales"
)

// Sheet names only used by the command line workbook
const (
	SheetOriginalData = "Datos_Originales"
	SheetByContraido  = "Por_Contraido"
)

type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

// ExcelExporter renders analyses as multi-sheet workbooks
type ExcelExporter struct {
	logger *slog.Logger
}

// NewExcelExporter creates the exporter
func NewExcelExporter(logger *slog.Logger) *ExcelExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExporter{logger: logger.With(slog.String("component", "exporter.excel"))}
}

// WriteAnalysisWorkbook writes the API export layout. Problemas and
// Advertencias are only present when non-empty; Datos Originales only when
// original is given.
func (e *ExcelExporter) WriteAnalysisWorkbook(path string, result *domain.AnalysisResult, original *domain.Table) error {
	if result == nil {
		return fmt.Errorf("write workbook: nil result")
	}

	sheets := []sheet{summarySheet(result.Summary)}
	if result.Details != nil {
		sheets = append(sheets, calculationsSheet(result.Details.Calculations))
	}
	if v := result.Validation; v != nil {
		if len(v.Issues) > 0 {
			sheets = append(sheets, issuesSheet(v.Issues))
		}
		if len(v.Warnings) > 0 {
			sheets = append(sheets, warningsSheet(v.Warnings))
		}
	}
	if original != nil {
		sheets = append(sheets, tableSheet(SheetOriginal, original))
	}

	return e.write(path, sheets)
}

// WriteContraidosWorkbook writes the command line layout
func (e *ExcelExporter) WriteContraidosWorkbook(path string, result *domain.AnalysisResult, original *domain.Table) error {
	if result == nil || !result.Success {
		return fmt.Errorf("write workbook: no successful result")
	}

	var sheets []sheet
	if original != nil {
		sheets = append(sheets, tableSheet(SheetOriginalData, original))
	}

	s, c := result.Summary, result.Details.Calculations
	sheets = append(sheets, sheet{
		name:    SheetSummary,
		headers: []string{"Métrica", "Valor"},
		rows: [][]any{
			{"Total Operaciones", s.TotalOperations},
			{"Operaciones AINP", s.ArqueoCount},
			{"Operaciones M;P Válidas", s.ValidCargoCount},
			{"Operaciones M;P Inválidas", s.InvalidCargoCount},
			{"Total AINP (€)", c.TotalArqueoPositive},
			{"Total M;P Válido (€)", c.TotalCargoNegative},
			{"Balance Neto (€)", c.NetBalance},
		},
	})

	byContraido := sheet{name: SheetByContraido, headers: ContraidoHeaders}
	for _, g := range result.Details.ByContraido {
		byContraido.rows = append(byContraido.rows, []any{
			g.Contraido,
			g.TotalArqueo,
			g.TotalCargoValid,
			g.TotalCargoInvalid,
			g.NetBalance,
			len(g.Operations),
			formatYesNo(g.NeedsAttention),
		})
	}
	sheets = append(sheets, byContraido)

	issues := sheet{name: SheetIssues, headers: []string{"Tipo", "Operación", "Contraído", "Importe", "Descripción"}}
	for _, issue := range result.Validation.Issues {
		issues.rows = append(issues.rows, []any{
			string(issue.Type), issue.Operation, issue.Contraido, issue.Amount, issue.Message,
		})
	}
	sheets = append(sheets, issues)

	return e.write(path, sheets)
}

func summarySheet(s *domain.Summary) sheet {
	out := sheet{name: SheetSummary, headers: []string{"Métrica", "Valor"}}
	if s == nil {
		return out
	}
	out.rows = [][]any{
		{"total_operations", formatInt(s.TotalOperations)},
		{"arqueo_count", formatInt(s.ArqueoCount)},
		{"cargo_count", formatInt(s.CargoCount)},
		{"valid_cargo_count", formatInt(s.ValidCargoCount)},
		{"invalid_cargo_count", formatInt(s.InvalidCargoCount)},
		{"unique_contraidos", formatInt(s.UniqueContraidos)},
		{"date_range", formatDateRange(s.DateRange)},
	}
	return out
}

func calculationsSheet(t domain.Totals) sheet {
	return sheet{
		name:    SheetCalculations,
		headers: []string{"Concepto", "Valor"},
		rows: [][]any{
			{"total_arqueo_positive", t.TotalArqueoPositive},
			{"total_cargo_negative", t.TotalCargoNegative},
			{"total_cargo_invalid", t.TotalCargoInvalid},
			{"net_balance", t.NetBalance},
			{"percentage_invalid", t.PercentageInvalid},
		},
	}
}

func issuesSheet(issues []domain.ValidationIssue) sheet {
	out := sheet{
		name:    SheetIssues,
		headers: []string{"type", "severity", "operation", "contraido", "amount", "estado", "message"},
	}
	for _, issue := range issues {
		var estado any
		if issue.Estado != nil && !issue.Estado.IsEmpty() {
			if n, ok := issue.Estado.Int(); ok {
				estado = n
			} else {
				estado = issue.Estado.String()
			}
		}
		out.rows = append(out.rows, []any{
			string(issue.Type), string(issue.Severity), issue.Operation,
			issue.Contraido, issue.Amount, estado, issue.Message,
		})
	}
	return out
}

func warningsSheet(warnings []domain.ValidationWarning) sheet {
	out := sheet{
		name:    SheetWarnings,
		headers: []string{"type", "severity", "contraido", "balance", "message"},
	}
	for _, w := range warnings {
		out.rows = append(out.rows, []any{
			string(w.Type), string(w.Severity), w.Contraido, w.Balance, w.Message,
		})
	}
	return out
}

func tableSheet(name string, table *domain.Table) sheet {
	out := sheet{name: name, headers: table.Columns}
	for _, row := range table.Rows {
		values := make([]any, len(table.Columns))
		for i, col := range table.Columns {
			values[i] = cellValue(row[col])
		}
		out.rows = append(out.rows, values)
	}
	return out
}

func (e *ExcelExporter) write(path string, sheets []sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("write workbook: sheet %s: %w", s.name, err)
		}

		if err := writeSheet(f, s, header); err != nil {
			return fmt.Errorf("write workbook: sheet %s: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	e.logger.Info("workbook written",
		slog.String("file", filepath.Base(path)),
		slog.Int("sheets", len(sheets)))
	return nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	headers := make([]any, len(s.headers))
	for i, h := range s.headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &headers); err != nil {
		return err
	}
	if len(headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
