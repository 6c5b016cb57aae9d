package contraidos

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
	"github.com/shopspring/decimal"
)

// DateTimeLayout is how timestamp cells are rendered into Operation.Date
const DateTimeLayout = "2006-01-02 15:04:05"

var errNotNumeric = errors.New("not a number")

// ClassifyTable converts every row of the table into an operation, in order
func ClassifyTable(table *domain.Table) ([]domain.Operation, error) {
	if table == nil {
		return nil, errors.New("nil table")
	}
	ops := make([]domain.Operation, 0, len(table.Rows))
	for i, row := range table.Rows {
		op, err := Classify(i, row)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Classify builds one operation from a raw row. Missing numeric cells become
// zero; cells that are present but not numeric are rejected.
func Classify(index int, row domain.Row) (domain.Operation, error) {
	var op domain.Operation
	var err error

	ints := []struct {
		column string
		dst    *int
	}{
		{domain.ColOperationNumber, &op.Number},
		{domain.ColYear, &op.Year},
		{domain.ColApplication, &op.Application},
		{domain.ColCPGC, &op.CPGC},
	}
	for _, f := range ints {
		if *f.dst, err = toInt(row[f.column]); err != nil {
			return op, &ClassificationError{Row: index, Column: f.column, Value: row[f.column], Err: err}
		}
	}

	if op.Amount, err = toDecimal(row[domain.ColAmount]); err != nil {
		return op, &ClassificationError{Row: index, Column: domain.ColAmount, Value: row[domain.ColAmount], Err: err}
	}

	op.Contraido = toText(row[domain.ColContraido])
	op.Phase = toText(row[domain.ColPhase])
	op.Date = toText(row[domain.ColDate])
	op.Counterpart = toText(row[domain.ColCounterpart])
	op.Description = toText(row[domain.ColDescription])
	op.Status = toStatus(row[domain.ColStatus])

	return op, nil
}

func toStatus(v any) domain.Status {
	if domain.IsNA(v) {
		return domain.TextStatus("")
	}
	switch x := v.(type) {
	case int:
		return domain.IntStatus(x)
	case int64:
		return domain.IntStatus(int(x))
	case int32:
		return domain.IntStatus(int(x))
	case float64:
		if math.IsInf(x, 0) {
			return domain.TextStatus(strconv.FormatFloat(x, 'f', -1, 64))
		}
		return domain.IntStatus(int(x))
	case float32:
		return domain.IntStatus(int(x))
	}
	text := strings.TrimSpace(fmt.Sprint(v))
	if n, err := strconv.Atoi(text); err == nil {
		return domain.IntStatus(n)
	}
	return domain.TextStatus(text)
}

func toText(v any) string {
	if domain.IsNA(v) {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(DateTimeLayout)
	}
	return fmt.Sprint(v)
}

func toInt(v any) (int, error) {
	if domain.IsNA(v) {
		return 0, nil
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case int32:
		return int(x), nil
	case float64:
		if math.IsInf(x, 0) {
			return 0, errNotNumeric
		}
		return int(x), nil
	case float32:
		return int(x), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, nil
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errNotNumeric
		}
		return int(f), nil
	}
	return 0, errNotNumeric
}

func toDecimal(v any) (decimal.Decimal, error) {
	if domain.IsNA(v) {
		return decimal.Zero, nil
	}
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case int32:
		return decimal.NewFromInt(int64(x)), nil
	case float64:
		if math.IsInf(x, 0) {
			return decimal.Zero, errNotNumeric
		}
		return decimal.NewFromFloat(x), nil
	case float32:
		return decimal.NewFromFloat32(x), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, errNotNumeric
		}
		return d, nil
	}
	return decimal.Zero, errNotNumeric
}
