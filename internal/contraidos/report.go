package contraidos

import (
	"fmt"
	"strings"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	reportWidth        = 80
	reportIssueLimit   = 5
	reportAttentionMax = 10
)

// GenerateReport renders a successful result as a plain-text report. Only
// euro amounts get thousands separators; counts and operation numbers are
// printed as is.
func GenerateReport(result *domain.AnalysisResult) string {
	p := message.NewPrinter(language.English)
	euro := func(v float64) string { return p.Sprintf("€%.2f", v) }
	var b strings.Builder
	rule := strings.Repeat("=", reportWidth)

	b.WriteString(rule + "\n")
	b.WriteString("ANÁLISIS DE CONTRAÍDOS\n")
	b.WriteString(rule + "\n")

	if result == nil || !result.Success {
		if result != nil {
			b.WriteString("\n" + result.Error + "\n")
		}
		b.WriteString("\n" + rule)
		return b.String()
	}

	s := result.Summary
	b.WriteString("\nRESUMEN\n")
	fmt.Fprintf(&b, "  • Total operaciones: %d\n", s.TotalOperations)
	fmt.Fprintf(&b, "  • Operaciones AINP (arqueo): %d\n", s.ArqueoCount)
	fmt.Fprintf(&b, "  • Operaciones M;P (cargo): %d\n", s.CargoCount)
	fmt.Fprintf(&b, "    - Válidas (estado=4): %d\n", s.ValidCargoCount)
	fmt.Fprintf(&b, "    - Inválidas: %d\n", s.InvalidCargoCount)
	fmt.Fprintf(&b, "  • Contraídos únicos: %d\n", s.UniqueContraidos)

	c := result.Details.Calculations
	b.WriteString("\nTOTALES\n")
	fmt.Fprintf(&b, "  • Total AINP (positivo): %s\n", euro(c.TotalArqueoPositive))
	fmt.Fprintf(&b, "  • Total M;P válido (negativo): %s\n", euro(c.TotalCargoNegative))
	fmt.Fprintf(&b, "  • Total M;P inválido: %s\n", euro(c.TotalCargoInvalid))
	fmt.Fprintf(&b, "  • BALANCE NETO: %s\n", euro(c.NetBalance))

	v := result.Validation
	state := "✓ VÁLIDO"
	if !v.IsValid {
		state = "✗ CON PROBLEMAS"
	}
	b.WriteString("\nVALIDACIÓN\n")
	fmt.Fprintf(&b, "  • Estado: %s\n", state)
	fmt.Fprintf(&b, "  • Problemas encontrados: %d\n", v.TotalIssues)
	fmt.Fprintf(&b, "  • Advertencias: %d\n", v.TotalWarnings)

	if len(v.Issues) > 0 {
		b.WriteString("\n  PROBLEMAS CRÍTICOS:\n")
		for _, issue := range head(v.Issues, reportIssueLimit) {
			fmt.Fprintf(&b, "    - %s\n", issue.Message)
			fmt.Fprintf(&b, "      Operación: %d, Importe: %s\n", issue.Operation, euro(issue.Amount))
		}
	}

	if len(v.Warnings) > 0 {
		b.WriteString("\n  ADVERTENCIAS:\n")
		for _, w := range head(v.Warnings, reportIssueLimit) {
			fmt.Fprintf(&b, "    - %s\n", w.Message)
		}
	}

	var attention []domain.ContraidoGroup
	for _, g := range result.Details.ByContraido {
		if g.NeedsAttention {
			attention = append(attention, g)
		}
	}
	if len(attention) > 0 {
		b.WriteString("\nCONTRAÍDOS QUE REQUIEREN ATENCIÓN\n")
		for _, g := range head(attention, reportAttentionMax) {
			fmt.Fprintf(&b, "\n  Contraído: %s\n", g.Contraido)
			fmt.Fprintf(&b, "    • Balance: %s\n", euro(g.NetBalance))
			fmt.Fprintf(&b, "    • Operaciones: %d\n", len(g.Operations))
			if g.HasInvalidOperations {
				b.WriteString("    • Tiene operaciones inválidas\n")
			}
		}
	}

	b.WriteString("\n" + rule)
	return b.String()
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
