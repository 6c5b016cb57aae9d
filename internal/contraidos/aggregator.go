package contraidos

import (
	"sort"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
	"github.com/shopspring/decimal"
)

const maxDescriptionLength = 50

// AggregateByPhase buckets operations into arqueo and valid/invalid cargo
func AggregateByPhase(ops []domain.Operation) domain.PhaseBreakdown {
	arqueo := newBucket()
	valid := newBucket()
	invalid := newBucket()
	cargoCount := 0

	for _, op := range ops {
		switch {
		case op.IsArqueo():
			arqueo.add(op)
		case op.IsValidCargo():
			cargoCount++
			valid.add(op)
		case op.IsInvalidCargo():
			cargoCount++
			invalid.add(op)
		}
	}

	return domain.PhaseBreakdown{
		Arqueo: arqueo.totals(),
		Cargo: domain.CargoBreakdown{
			Count:   cargoCount,
			Valid:   valid.totals(),
			Invalid: invalid.totals(),
		},
	}
}

// AggregateByContraido groups operations by contraído number. Groups are built
// in first-seen order and then stably sorted by descending absolute net
// balance. Operations without a contraído number are skipped.
func AggregateByContraido(ops []domain.Operation) []domain.ContraidoGroup {
	index := make(map[string]int)
	var groups []*groupAccumulator

	for _, op := range ops {
		if op.Contraido == "" {
			continue
		}
		i, ok := index[op.Contraido]
		if !ok {
			i = len(groups)
			index[op.Contraido] = i
			groups = append(groups, &groupAccumulator{contraido: op.Contraido})
		}
		groups[i].fold(op)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].net.Abs().GreaterThan(groups[j].net.Abs())
	})

	result := make([]domain.ContraidoGroup, 0, len(groups))
	for _, g := range groups {
		result = append(result, g.group())
	}
	return result
}

type bucket struct {
	count   int
	total   decimal.Decimal
	numbers []int
}

func newBucket() *bucket {
	return &bucket{total: decimal.Zero, numbers: make([]int, 0)}
}

func (b *bucket) add(op domain.Operation) {
	b.count++
	b.total = b.total.Add(op.Amount)
	b.numbers = append(b.numbers, op.Number)
}

func (b *bucket) totals() domain.PhaseTotals {
	return domain.PhaseTotals{
		Count:       b.count,
		TotalAmount: b.total.InexactFloat64(),
		Operations:  b.numbers,
	}
}

type groupAccumulator struct {
	contraido  string
	operations []domain.OperationSummary
	arqueo     decimal.Decimal
	valid      decimal.Decimal
	invalid    decimal.Decimal
	net        decimal.Decimal
	hasInvalid bool
}

func (g *groupAccumulator) fold(op domain.Operation) {
	g.operations = append(g.operations, summarizeOperation(op))

	switch {
	case op.IsArqueo():
		g.arqueo = g.arqueo.Add(op.Amount)
	case op.IsValidCargo():
		g.valid = g.valid.Add(op.Amount)
	case op.IsInvalidCargo():
		g.invalid = g.invalid.Add(op.Amount)
		g.hasInvalid = true
	}

	g.net = g.arqueo.Sub(g.valid)
}

func (g *groupAccumulator) group() domain.ContraidoGroup {
	return domain.ContraidoGroup{
		Contraido:            g.contraido,
		Operations:           g.operations,
		TotalArqueo:          g.arqueo.InexactFloat64(),
		TotalCargoValid:      g.valid.InexactFloat64(),
		TotalCargoInvalid:    g.invalid.InexactFloat64(),
		NetBalance:           g.net.InexactFloat64(),
		HasInvalidOperations: g.hasInvalid,
		NeedsAttention:       g.hasInvalid,
	}
}

func summarizeOperation(op domain.Operation) domain.OperationSummary {
	return domain.OperationSummary{
		Number:      op.Number,
		Phase:       op.Phase,
		Status:      op.Status,
		Amount:      op.Amount.InexactFloat64(),
		Date:        op.Date,
		Description: truncate(op.Description, maxDescriptionLength),
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
