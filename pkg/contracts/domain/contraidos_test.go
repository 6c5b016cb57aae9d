package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationPredicates(t *testing.T) {
	tests := []struct {
		name        string
		phase       string
		status      Status
		wantArqueo  bool
		wantCargo   bool
		wantValid   bool
		wantInvalid bool
		wantAmount  string
	}{
		{
			name:       "arqueo ignores status",
			phase:      PhaseArqueo,
			status:     IntStatus(2),
			wantArqueo: true,
			wantAmount: "150.5",
		},
		{
			name:       "cargo with numeric status 4",
			phase:      PhaseCargo,
			status:     IntStatus(4),
			wantCargo:  true,
			wantValid:  true,
			wantAmount: "-150.5",
		},
		{
			name:       "cargo with text status 4",
			phase:      PhaseCargo,
			status:     TextStatus("4"),
			wantCargo:  true,
			wantValid:  true,
			wantAmount: "-150.5",
		},
		{
			name:        "cargo with status 2",
			phase:       PhaseCargo,
			status:      IntStatus(2),
			wantCargo:   true,
			wantInvalid: true,
			wantAmount:  "0",
		},
		{
			name:        "cargo with empty status",
			phase:       PhaseCargo,
			status:      TextStatus(""),
			wantCargo:   true,
			wantInvalid: true,
			wantAmount:  "0",
		},
		{
			name:       "unknown phase",
			phase:      "RD",
			status:     IntStatus(4),
			wantAmount: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := Operation{
				Number: 1,
				Phase:  tt.phase,
				Status: tt.status,
				Amount: decimal.RequireFromString("150.5"),
			}

			assert.Equal(t, tt.wantArqueo, op.IsArqueo())
			assert.Equal(t, tt.wantCargo, op.IsCargo())
			assert.Equal(t, tt.wantValid, op.IsValidCargo())
			assert.Equal(t, tt.wantInvalid, op.IsInvalidCargo())
			assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(op.EffectiveAmount()),
				"effective amount %s", op.EffectiveAmount())

			assert.False(t, op.IsArqueo() && op.IsCargo())
			if op.IsCargo() {
				assert.NotEqual(t, op.IsValidCargo(), op.IsInvalidCargo())
			}
		})
	}
}

func TestStatusJSON(t *testing.T) {
	data, err := json.Marshal(IntStatus(4))
	require.NoError(t, err)
	assert.Equal(t, "4", string(data))

	data, err = json.Marshal(TextStatus("pendiente"))
	require.NoError(t, err)
	assert.Equal(t, `"pendiente"`, string(data))

	var s Status
	require.NoError(t, json.Unmarshal([]byte(`"4"`), &s))
	assert.False(t, s.IsNumeric())
	assert.True(t, s.IsComplete())

	require.NoError(t, json.Unmarshal([]byte(`2`), &s))
	n, ok := s.Int()
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.True(t, s.IsEmpty())
}

func TestIsNA(t *testing.T) {
	assert.True(t, IsNA(nil))
	assert.True(t, IsNA(math.NaN()))
	assert.False(t, IsNA(""))
	assert.False(t, IsNA(0))
	assert.False(t, IsNA(1.5))
}

func TestTableColumns(t *testing.T) {
	table := &Table{Columns: []string{" FASE ", "Importe", "Nº Operación"}}

	assert.True(t, table.HasColumns(ColPhase, ColAmount, ColOperationNumber))
	assert.False(t, table.HasColumns(ColStatus))
	assert.Equal(t, []string{ColYear, ColStatus}, table.MissingColumns(ColPhase, ColYear, ColStatus))
}
