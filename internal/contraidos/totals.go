package contraidos

import (
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateTotals sums the dataset in input order. Operations without a
// contraído number are included.
func CalculateTotals(ops []domain.Operation) domain.Totals {
	arqueo := decimal.Zero
	valid := decimal.Zero
	invalid := decimal.Zero

	for _, op := range ops {
		switch {
		case op.IsArqueo():
			arqueo = arqueo.Add(op.Amount)
		case op.IsValidCargo():
			valid = valid.Add(op.Amount)
		case op.IsInvalidCargo():
			invalid = invalid.Add(op.Amount)
		}
	}

	return domain.Totals{
		TotalArqueoPositive: arqueo.InexactFloat64(),
		TotalCargoNegative:  valid.InexactFloat64(),
		TotalCargoInvalid:   invalid.InexactFloat64(),
		NetBalance:          arqueo.Sub(valid).InexactFloat64(),
		PercentageInvalid:   percentageInvalid(valid, invalid),
	}
}

func percentageInvalid(valid, invalid decimal.Decimal) float64 {
	denominator := valid.Add(invalid)
	if !denominator.IsPositive() {
		return 0
	}
	return invalid.Div(denominator).Mul(hundred).InexactFloat64()
}
