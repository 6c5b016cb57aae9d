package exporter

import (
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

// ContraidoHeaders are the columns of the per-contraído listings
var ContraidoHeaders = []string{
	"Nº Contraído",
	"Total Arqueo",
	"Total Cargo Válido",
	"Total Cargo Inválido",
	"Balance Neto",
	"Nº Operaciones",
	"Requiere Atención",
}

// ContraidoExporter writes the per-contraído listing as CSV
type ContraidoExporter struct {
	csvWriter *CSVWriter
}

// NewContraidoExporter creates an exporter writing below baseDir
func NewContraidoExporter(baseDir string) *ContraidoExporter {
	return &ContraidoExporter{csvWriter: NewCSVWriter(baseDir)}
}

// ExportByContraido writes one row per group, in the order given
func (e *ContraidoExporter) ExportByContraido(groups []domain.ContraidoGroup, filePath string) error {
	records := make([][]string, 0, len(groups))
	for _, g := range groups {
		records = append(records, contraidoRecord(g))
	}
	return e.csvWriter.WriteSimpleCSV(filePath, ContraidoHeaders, records)
}

func contraidoRecord(g domain.ContraidoGroup) []string {
	return []string{
		g.Contraido,
		formatFloat(g.TotalArqueo),
		formatFloat(g.TotalCargoValid),
		formatFloat(g.TotalCargoInvalid),
		formatFloat(g.NetBalance),
		formatInt(len(g.Operations)),
		formatYesNo(g.NeedsAttention),
	}
}
