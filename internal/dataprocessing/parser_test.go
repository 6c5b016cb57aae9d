package dataprocessing

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

// writeWorkbook saves headers and rows into the first sheet of a new workbook
func writeWorkbook(t *testing.T, name string, headers []string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Contraidos"
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	for r, values := range rows {
		for c, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func paddedHeaders() []string {
	headers := make([]string, len(domain.RequiredColumns))
	for i, h := range domain.RequiredColumns {
		headers[i] = " " + h + " "
	}
	return headers
}

func TestContraidosExcelParserParse(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	path := writeWorkbook(t, "contraidos.xlsx", paddedHeaders(), [][]any{
		{101, 2024, 11300, "2024/000123", 100.5, 554, "AINP", date, "B41000000", "Tasa de basura", 4},
		{102, 2024, 11300, "2024/000123", 100.5, 554, "M;P", "31/12/2023", "B41000000", "Cobro", "4"},
		{103, 2024, 11300, nil, 7, 554, "M;P", nil, nil, nil, nil},
	})

	parser := NewContraidosExcelParser(nil)
	result, err := parser.Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, FileTypeContraidosExcel, result.FileType)

	table := result.Table
	assert.Equal(t, domain.RequiredColumns, table.Columns)
	require.Len(t, table.Rows, 3)

	first := table.Rows[0]
	assert.Equal(t, int64(101), first[domain.ColOperationNumber])
	assert.Equal(t, "2024/000123", first[domain.ColContraido])
	assert.Equal(t, 100.5, first[domain.ColAmount])
	assert.Equal(t, "AINP", first[domain.ColPhase])
	assert.Equal(t, "2024-01-15 00:00:00", first[domain.ColDate])
	assert.Equal(t, int64(4), first[domain.ColStatus])

	second := table.Rows[1]
	assert.Equal(t, "31/12/2023", second[domain.ColDate])
	assert.Equal(t, "4", second[domain.ColStatus])

	third := table.Rows[2]
	assert.Nil(t, third[domain.ColContraido])
	assert.Nil(t, third[domain.ColStatus])
	assert.Equal(t, int64(7), third[domain.ColAmount])

	meta := table.Metadata
	assert.Equal(t, "contraidos.xlsx", meta["filename"])
	assert.Equal(t, ".xlsx", meta["extension"])
	assert.Equal(t, "ContraidosExcelParser", meta["parser"])
	assert.Equal(t, 3, meta["row_count"])
	assert.Equal(t, 11, meta["column_count"])
	assert.Greater(t, meta["size_bytes"], int64(0))
}

func TestContraidosExcelParserStructuralErrors(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		rows     [][]any
		problems []string
	}{
		{
			name:     "missing columns",
			headers:  []string{"Nº Operación", "FASE", "Importe"},
			rows:     [][]any{{1, "AINP", 10}},
			problems: []string{"Missing columns: Año, Aplicación, Nº Contraido, CPGC, Fecha, Tercero, Descripción, Estado"},
		},
		{
			name:     "header only",
			headers:  domain.RequiredColumns,
			problems: []string{"File is empty"},
		},
		{
			name:    "text amount",
			headers: domain.RequiredColumns,
			rows: [][]any{
				{1, 2024, 1, "A", "cien", 1, "AINP", nil, nil, nil, 4},
			},
			problems: []string{"Column 'Importe' must contain numeric values"},
		},
	}

	parser := NewContraidosExcelParser(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeWorkbook(t, "bad.xlsx", tt.headers, tt.rows)

			_, err := parser.Parse(context.Background(), path)
			require.Error(t, err)

			var se *StructuralError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.problems, se.Problems)
			assert.Contains(t, err.Error(), "Invalid file structure: ")
		})
	}
}

func TestContraidosExcelParserCanHandle(t *testing.T) {
	parser := NewContraidosExcelParser(nil)

	assert.True(t, parser.CanHandle("data.xlsx"))
	assert.True(t, parser.CanHandle("DATA.XLS"))
	assert.False(t, parser.CanHandle("data.csv"))
	assert.False(t, parser.CanHandle("xlsx"))
}

func TestContraidosExcelParserMissingFile(t *testing.T) {
	parser := NewContraidosExcelParser(nil)
	_, err := parser.Parse(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestParserRegistry(t *testing.T) {
	registry := NewParserRegistry(NewContraidosExcelParser(nil))

	p, err := registry.ParserFor("/tmp/upload.XLSX")
	require.NoError(t, err)
	assert.Equal(t, "ContraidosExcelParser", p.Name())

	_, err = registry.ParserFor("/tmp/upload.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoParser)
	assert.Contains(t, err.Error(), "ContraidosExcelParser")

	assert.Equal(t, []string{".xls", ".xlsx"}, registry.SupportedExtensions())
}
