package exporter

import (
	"fmt"
	"strconv"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

// formatFloat formats amounts with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatYesNo renders booleans the way the Spanish sheets expect
func formatYesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

func formatDateRange(r domain.DateRange) string {
	earliest, latest := "-", "-"
	if r.Earliest != nil {
		earliest = *r.Earliest
	}
	if r.Latest != nil {
		latest = *r.Latest
	}
	return earliest + " / " + latest
}

// cellValue converts a table cell for a spreadsheet, dropping NA sentinels
func cellValue(v any) any {
	if domain.IsNA(v) {
		return nil
	}
	return v
}
