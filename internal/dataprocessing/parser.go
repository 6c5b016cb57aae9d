package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

// FileTypeContraidosExcel tags tables produced by ContraidosExcelParser
const FileTypeContraidosExcel = "contraidos_excel"

// FileParser turns a file on disk into a table
type FileParser interface {
	Name() string
	Extensions() []string
	CanHandle(path string) bool
	Parse(ctx context.Context, path string) (*ParseResult, error)
	ValidateStructure(table *domain.Table) []string
}

// ParseResult is a successfully parsed file
type ParseResult struct {
	Table    *domain.Table
	FileType string
}

// ContraidosExcelParser reads contraídos exports from Excel workbooks
type ContraidosExcelParser struct {
	logger *slog.Logger
}

// NewContraidosExcelParser creates the parser
func NewContraidosExcelParser(logger *slog.Logger) *ContraidosExcelParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContraidosExcelParser{
		logger: logger.With(slog.String("component", "contraidos.parser")),
	}
}

// Name identifies the parser in metadata and errors
func (p *ContraidosExcelParser) Name() string { return "ContraidosExcelParser" }

// Extensions lists the handled file extensions
func (p *ContraidosExcelParser) Extensions() []string { return []string{".xlsx", ".xls"} }

// CanHandle checks the file extension, case-insensitively
func (p *ContraidosExcelParser) CanHandle(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range p.Extensions() {
		if ext == e {
			return true
		}
	}
	return false
}

// Parse reads the first worksheet. The first row holds the headers, which are
// trimmed; every following row becomes a domain.Row.
func (p *ContraidosExcelParser) Parse(ctx context.Context, path string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &StructuralError{Problems: []string{"File is empty"}}
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("parse file: read sheet %s: %w", sheet, err)
	}

	table := &domain.Table{Columns: []string{}, Rows: []domain.Row{}}
	if len(rows) > 0 {
		for _, h := range rows[0] {
			table.Columns = append(table.Columns, strings.TrimSpace(h))
		}
		for i, raw := range rows[1:] {
			if isBlank(raw) {
				continue
			}
			row, err := p.decodeRow(f, sheet, i+2, table.Columns, raw)
			if err != nil {
				return nil, fmt.Errorf("parse file: row %d: %w", i+2, err)
			}
			table.Rows = append(table.Rows, row)
		}
	}

	if problems := p.ValidateStructure(table); len(problems) > 0 {
		p.logger.WarnContext(ctx, "invalid file structure",
			slog.String("file", filepath.Base(path)),
			slog.Any("problems", problems))
		return nil, &StructuralError{Problems: problems}
	}

	table.Metadata = map[string]any{
		"filename":     filepath.Base(path),
		"size_bytes":   info.Size(),
		"extension":    strings.ToLower(filepath.Ext(path)),
		"parser":       p.Name(),
		"row_count":    len(table.Rows),
		"column_count": len(table.Columns),
		"columns":      append([]string(nil), table.Columns...),
	}

	p.logger.InfoContext(ctx, "file parsed",
		slog.String("file", filepath.Base(path)),
		slog.String("sheet", sheet),
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(table.Columns)))

	return &ParseResult{Table: table, FileType: FileTypeContraidosExcel}, nil
}

// ValidateStructure returns every structural problem of the table
func (p *ContraidosExcelParser) ValidateStructure(table *domain.Table) []string {
	var problems []string

	if missing := table.MissingColumns(domain.RequiredColumns...); len(missing) > 0 {
		problems = append(problems, "Missing columns: "+strings.Join(missing, ", "))
	}
	if len(table.Rows) == 0 {
		problems = append(problems, "File is empty")
	}
	if len(problems) == 0 && !numericColumn(table, domain.ColAmount) {
		problems = append(problems, fmt.Sprintf("Column '%s' must contain numeric values", domain.ColAmount))
	}

	return problems
}

func (p *ContraidosExcelParser) decodeRow(f *excelize.File, sheet string, rowNum int, columns []string, raw []string) (domain.Row, error) {
	row := make(domain.Row, len(columns))
	for col, name := range columns {
		if name == "" {
			continue
		}
		if col >= len(raw) || raw[col] == "" {
			row[name] = nil
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return nil, err
		}
		cellType, err := f.GetCellType(sheet, cell)
		if err != nil {
			return nil, err
		}
		row[name] = decodeCell(name, cellType, raw[col])
	}
	return row, nil
}

func decodeCell(column string, cellType excelize.CellType, raw string) any {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return raw
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if column == domain.ColDate {
			return serialToDate(float64(n), raw)
		}
		return n
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		if column == domain.ColDate {
			return serialToDate(v, raw)
		}
		return v
	}
	return raw
}

func serialToDate(serial float64, raw string) any {
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return raw
	}
	return t.Format(time.DateTime)
}

// numericColumn reports whether every present value of the column is a number
func numericColumn(table *domain.Table, column string) bool {
	for _, row := range table.Rows {
		v := row[column]
		if domain.IsNA(v) {
			continue
		}
		switch v.(type) {
		case int, int64, float64:
			continue
		}
		return false
	}
	return true
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
