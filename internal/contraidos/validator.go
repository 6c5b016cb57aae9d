package contraidos

import (
	"fmt"
	"math"
	"strings"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

// BalanceTolerance is the absolute net balance under which a group counts as settled
const BalanceTolerance = 0.01

const cancellationMarker = "anula"

// Validator applies the business rules to classified operations
type Validator struct {
	checkCancellations bool
}

// NewValidator creates a validator. When checkCancellations is set, every
// invalid cargo without a matching cancellation operation raises an extra issue.
func NewValidator(checkCancellations bool) *Validator {
	return &Validator{checkCancellations: checkCancellations}
}

// Validate builds the report. groups must be the by-contraído aggregation of ops.
func (v *Validator) Validate(ops []domain.Operation, groups []domain.ContraidoGroup) domain.ValidationReport {
	issues := make([]domain.ValidationIssue, 0)
	warnings := make([]domain.ValidationWarning, 0)

	for _, op := range ops {
		if !op.IsInvalidCargo() {
			continue
		}
		status := op.Status
		issues = append(issues, domain.ValidationIssue{
			Type:      domain.IssueInvalidCargo,
			Severity:  domain.SeverityCritical,
			Operation: op.Number,
			Contraido: op.Contraido,
			Amount:    op.Amount.InexactFloat64(),
			Estado:    &status,
			Message:   fmt.Sprintf("Operación M;P con estado '%s' != 4 (incompleta/cancelada)", status),
		})
	}

	for _, g := range groups {
		if math.Abs(g.NetBalance) <= BalanceTolerance {
			continue
		}
		w := domain.ValidationWarning{
			Severity:  domain.SeverityWarning,
			Contraido: g.Contraido,
			Balance:   g.NetBalance,
		}
		if g.NetBalance > 0 {
			w.Type = domain.WarningPositiveBalance
			w.Message = fmt.Sprintf("Contraído con saldo positivo: €%.2f", g.NetBalance)
		} else {
			w.Type = domain.WarningNegativeBalance
			w.Message = fmt.Sprintf("Contraído con saldo negativo: €%.2f", g.NetBalance)
		}
		warnings = append(warnings, w)
	}

	if v.checkCancellations {
		issues = append(issues, uncancelledCargos(ops)...)
	}

	return domain.ValidationReport{
		IsValid:       len(issues) == 0,
		Issues:        issues,
		Warnings:      warnings,
		TotalIssues:   len(issues),
		TotalWarnings: len(warnings),
	}
}

// uncancelledCargos flags invalid cargos that no other cargo of the same
// contraído cancels. A cancelling operation mentions "anula" in its description.
func uncancelledCargos(ops []domain.Operation) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	for _, op := range ops {
		if !op.IsInvalidCargo() || hasCancellation(op, ops) {
			continue
		}
		issues = append(issues, domain.ValidationIssue{
			Type:      domain.IssueCargoNotCancelled,
			Severity:  domain.SeverityCritical,
			Operation: op.Number,
			Contraido: op.Contraido,
			Amount:    op.Amount.InexactFloat64(),
			Message:   "Operación M;P inválida sin anulación detectada",
		})
	}
	return issues
}

func hasCancellation(op domain.Operation, ops []domain.Operation) bool {
	for _, other := range ops {
		if other.IsCargo() &&
			other.Contraido == op.Contraido &&
			other.Number != op.Number &&
			strings.Contains(strings.ToLower(other.Description), cancellationMarker) {
			return true
		}
	}
	return false
}
