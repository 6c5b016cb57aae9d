package contraidos

import "github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"

// TopContraidosLimit caps the top-balance chart
const TopContraidosLimit = 10

const (
	colorArqueo  = "#10b981"
	colorValid   = "#3b82f6"
	colorInvalid = "#ef4444"
	colorNet     = "#8b5cf6"
)

// BuildChartData reshapes already computed aggregates into chart series
func BuildChartData(byPhase domain.PhaseBreakdown, groups []domain.ContraidoGroup, totals domain.Totals) domain.ChartData {
	top := groups
	if len(top) > TopContraidosLimit {
		top = top[:TopContraidosLimit]
	}
	balances := make([]domain.BalanceEntry, 0, len(top))
	for _, g := range top {
		balances = append(balances, domain.BalanceEntry{Contraido: g.Contraido, Balance: g.NetBalance})
	}

	return domain.ChartData{
		FaseDistribution: domain.PieChart{
			Type:  "pie",
			Title: "Distribución por Fase",
			Data: []domain.PieSlice{
				{Name: "AINP (Arqueo)", Value: byPhase.Arqueo.Count, Color: colorArqueo},
				{Name: "M;P Válido", Value: byPhase.Cargo.Valid.Count, Color: colorValid},
				{Name: "M;P Inválido", Value: byPhase.Cargo.Invalid.Count, Color: colorInvalid},
			},
		},
		BalanceSummary: domain.BarChart{
			Type:  "bar",
			Title: "Resumen de Balances",
			Data: []domain.BarEntry{
				{Category: "AINP Total", Value: totals.TotalArqueoPositive, Color: colorArqueo},
				{Category: "M;P Válido", Value: totals.TotalCargoNegative, Color: colorValid},
				{Category: "Balance Neto", Value: totals.NetBalance, Color: colorNet},
			},
		},
		TopContraidos: domain.BalanceChart{
			Type:  "bar",
			Title: "Top 10 Contraídos por Balance",
			Data:  balances,
		},
	}
}
