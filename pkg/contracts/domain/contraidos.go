package domain

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Phase codes recognised by the classification rules
const (
	PhaseArqueo = "AINP"
	PhaseCargo  = "M;P"
)

// ValidCargoStatus is the only status that makes a cargo operation count
const ValidCargoStatus = 4

// Status is the raw "Estado" value of an operation. It is either an integer
// or free text; an absent value is the empty text status.
type Status struct {
	num     int
	text    string
	numeric bool
}

// IntStatus creates a numeric status
func IntStatus(n int) Status {
	return Status{num: n, numeric: true}
}

// TextStatus creates a textual status
func TextStatus(s string) Status {
	return Status{text: s}
}

// IsNumeric reports whether the status holds an integer
func (s Status) IsNumeric() bool { return s.numeric }

// Int returns the integer value and whether the status is numeric
func (s Status) Int() (int, bool) { return s.num, s.numeric }

// IsEmpty reports whether the status is the absent marker
func (s Status) IsEmpty() bool { return !s.numeric && s.text == "" }

// IsComplete reports whether the status is 4, as integer or as the text "4"
func (s Status) IsComplete() bool {
	if s.numeric {
		return s.num == ValidCargoStatus
	}
	return s.text == strconv.Itoa(ValidCargoStatus)
}

// String renders the status the way it appears in messages
func (s Status) String() string {
	if s.numeric {
		return strconv.Itoa(s.num)
	}
	return s.text
}

// MarshalJSON writes numeric statuses as numbers and text as strings
func (s Status) MarshalJSON() ([]byte, error) {
	if s.numeric {
		return []byte(strconv.Itoa(s.num)), nil
	}
	return json.Marshal(s.text)
}

// UnmarshalJSON accepts either a JSON number or a JSON string
func (s *Status) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = Status{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = TextStatus(text)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*s = IntStatus(int(f))
	return nil
}

// Operation is one accounting record of a contraídos ledger
type Operation struct {
	Number      int             `json:"num_operacion"`
	Year        int             `json:"año"`
	Application int             `json:"aplicacion"`
	Contraido   string          `json:"num_contraido"`
	Amount      decimal.Decimal `json:"importe"`
	CPGC        int             `json:"cpgc"`
	Phase       string          `json:"fase"`
	Date        string          `json:"fecha"`
	Counterpart string          `json:"tercero"`
	Description string          `json:"descripcion"`
	Status      Status          `json:"estado"`
}

// IsArqueo reports whether the operation is a receipt (AINP)
func (o Operation) IsArqueo() bool { return o.Phase == PhaseArqueo }

// IsCargo reports whether the operation is a charge (M;P)
func (o Operation) IsCargo() bool { return o.Phase == PhaseCargo }

// IsValidCargo reports whether the operation is a completed charge
func (o Operation) IsValidCargo() bool { return o.IsCargo() && o.Status.IsComplete() }

// IsInvalidCargo reports whether the operation is an incomplete or cancelled charge
func (o Operation) IsInvalidCargo() bool { return o.IsCargo() && !o.Status.IsComplete() }

// EffectiveAmount is the signed contribution of the operation to a balance
func (o Operation) EffectiveAmount() decimal.Decimal {
	switch {
	case o.IsArqueo():
		return o.Amount
	case o.IsValidCargo():
		return o.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// OperationSummary is the compact form of an operation kept inside a group
type OperationSummary struct {
	Number      int     `json:"num_operacion"`
	Phase       string  `json:"fase"`
	Status      Status  `json:"estado"`
	Amount      float64 `json:"importe"`
	Date        string  `json:"fecha"`
	Description string  `json:"descripcion"`
}

// ContraidoGroup aggregates every operation sharing a contraído number
type ContraidoGroup struct {
	Contraido            string             `json:"num_contraido"`
	Operations           []OperationSummary `json:"operations"`
	TotalArqueo          float64            `json:"total_arqueo"`
	TotalCargoValid      float64            `json:"total_cargo_valid"`
	TotalCargoInvalid    float64            `json:"total_cargo_invalid"`
	NetBalance           float64            `json:"net_balance"`
	HasInvalidOperations bool               `json:"has_invalid_operations"`
	NeedsAttention       bool               `json:"needs_attention"`
}

// PhaseTotals holds count, amount and operation numbers for one bucket
type PhaseTotals struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
	Operations  []int   `json:"operations"`
}

// CargoBreakdown splits the M;P phase into valid and invalid operations
type CargoBreakdown struct {
	Count   int         `json:"count"`
	Valid   PhaseTotals `json:"valid"`
	Invalid PhaseTotals `json:"invalid"`
}

// PhaseBreakdown is the by-phase aggregation
type PhaseBreakdown struct {
	Arqueo PhaseTotals    `json:"AINP"`
	Cargo  CargoBreakdown `json:"M;P"`
}

// Totals are the dataset-wide amounts
type Totals struct {
	TotalArqueoPositive float64 `json:"total_arqueo_positive"`
	TotalCargoNegative  float64 `json:"total_cargo_negative"`
	TotalCargoInvalid   float64 `json:"total_cargo_invalid"`
	NetBalance          float64 `json:"net_balance"`
	PercentageInvalid   float64 `json:"percentage_invalid"`
}
