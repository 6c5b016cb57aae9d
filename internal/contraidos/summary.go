package contraidos

import (
	"strings"
	"time"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

const isoDate = "2006-01-02"

// Summarize counts operations by class and finds the date range
func Summarize(ops []domain.Operation) domain.Summary {
	s := domain.Summary{TotalOperations: len(ops)}
	contraidos := make(map[string]struct{})

	for _, op := range ops {
		switch {
		case op.IsArqueo():
			s.ArqueoCount++
		case op.IsValidCargo():
			s.CargoCount++
			s.ValidCargoCount++
		case op.IsInvalidCargo():
			s.CargoCount++
			s.InvalidCargoCount++
		}
		if op.Contraido != "" {
			contraidos[op.Contraido] = struct{}{}
		}
	}

	s.UniqueContraidos = len(contraidos)
	s.DateRange = DateRangeOf(ops)
	return s
}

// DateRangeOf returns the earliest and latest parseable operation dates.
// Dates that match no accepted shape are ignored.
func DateRangeOf(ops []domain.Operation) domain.DateRange {
	var earliest, latest time.Time
	found := false

	for _, op := range ops {
		d, ok := ParseOperationDate(op.Date)
		if !ok {
			continue
		}
		if !found || d.Before(earliest) {
			earliest = d
		}
		if !found || d.After(latest) {
			latest = d
		}
		found = true
	}

	if !found {
		return domain.DateRange{}
	}
	e := earliest.Format(isoDate)
	l := latest.Format(isoDate)
	return domain.DateRange{Earliest: &e, Latest: &l}
}

// ParseOperationDate accepts "YYYY-MM-DD" with an optional time-of-day suffix
// and "DD/MM/YYYY".
func ParseOperationDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return time.Time{}, false
	}

	if strings.Contains(s, "/") {
		d, err := time.Parse("2/1/2006", s)
		return d, err == nil
	}

	if i := strings.IndexAny(s, " T"); i >= 0 {
		s = s[:i]
	}
	d, err := time.Parse(isoDate, s)
	return d, err == nil
}
