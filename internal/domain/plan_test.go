package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPlan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id         string
		amount     int64
		credits    int64
		minorUnits int64
	}{
		{"Basic", 1, 100, 100},
		{"Advanced", 5, 500, 500},
		{"Business", 10, 5000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			plan, err := LookupPlan(tt.id)
			require.NoError(t, err)
			assert.Equal(t, PlanID(tt.id), plan.ID)
			assert.True(t, plan.Amount.Equal(decimal.NewFromInt(tt.amount)))
			assert.Equal(t, tt.credits, plan.Credits)
			assert.Equal(t, tt.minorUnits, plan.MinorUnits())
		})
	}
}

func TestLookupPlan_Rejects(t *testing.T) {
	t.Parallel()

	_, err := LookupPlan("Gold")
	assert.True(t, errors.Is(err, ErrUnknownPlan))
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = LookupPlan("basic")
	assert.ErrorIs(t, err, ErrUnknownPlan)

	_, err = LookupPlan("  ")
	assert.ErrorIs(t, err, ErrMissingDetails)
}

func TestPlans_OrderedByPrice(t *testing.T) {
	t.Parallel()

	all := Plans()
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].Amount.LessThan(all[i].Amount))
	}
}

func TestToMinorUnits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(150), ToMinorUnits(decimal.RequireFromString("1.5")))
	assert.Equal(t, int64(1), ToMinorUnits(decimal.RequireFromString("0.019")))
}
