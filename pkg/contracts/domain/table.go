package domain

import (
	"math"
	"strings"
)

// Column headers of a contraídos export
const (
	ColOperationNumber = "Nº Operación"
	ColYear            = "Año"
	ColApplication     = "Aplicación"
	ColContraido       = "Nº Contraido"
	ColAmount          = "Importe"
	ColCPGC            = "CPGC"
	ColPhase           = "FASE"
	ColDate            = "Fecha"
	ColCounterpart     = "Tercero"
	ColDescription     = "Descripción"
	ColStatus          = "Estado"
)

// RequiredColumns lists the headers a contraídos table must carry
var RequiredColumns = []string{
	ColOperationNumber,
	ColYear,
	ColApplication,
	ColContraido,
	ColAmount,
	ColCPGC,
	ColPhase,
	ColDate,
	ColCounterpart,
	ColDescription,
	ColStatus,
}

// Row maps a column header to its cell value. A nil value (or a float NaN)
// marks a missing cell.
type Row map[string]any

// IsNA reports whether v is the "not available" marker
func IsNA(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// Table is a parsed tabular dataset
type Table struct {
	Columns  []string       `json:"columns"`
	Rows     []Row          `json:"rows"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// HasColumns reports whether every name is a (trimmed) header of the table
func (t *Table) HasColumns(names ...string) bool {
	present := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		present[strings.TrimSpace(c)] = struct{}{}
	}
	for _, n := range names {
		if _, ok := present[n]; !ok {
			return false
		}
	}
	return true
}

// MissingColumns returns the names absent from the table, in argument order
func (t *Table) MissingColumns(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !t.HasColumns(n) {
			missing = append(missing, n)
		}
	}
	return missing
}
