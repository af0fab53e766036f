package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PlanID names a purchasable credit pack.
type PlanID string

const (
	PlanBasic    PlanID = "Basic"
	PlanAdvanced PlanID = "Advanced"
	PlanBusiness PlanID = "Business"
)

// Plan maps a pack to its price (major currency units) and the credits it buys.
type Plan struct {
	ID      PlanID
	Amount  decimal.Decimal
	Credits int64
}

var plans = map[PlanID]Plan{
	PlanBasic:    {ID: PlanBasic, Amount: decimal.NewFromInt(1), Credits: 100},
	PlanAdvanced: {ID: PlanAdvanced, Amount: decimal.NewFromInt(5), Credits: 500},
	PlanBusiness: {ID: PlanBusiness, Amount: decimal.NewFromInt(10), Credits: 5000},
}

// minorUnitsPerMajor is the gateway's subunit factor (paise per rupee, cents per dollar).
var minorUnitsPerMajor = decimal.NewFromInt(100)

// LookupPlan resolves a plan id. Matching is exact; "basic" is not a plan.
func LookupPlan(id string) (Plan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Plan{}, ErrMissingDetails
	}

	plan, ok := plans[PlanID(id)]
	if !ok {
		return Plan{}, ErrUnknownPlan
	}

	return plan, nil
}

// Plans returns every plan ordered by price.
func Plans() []Plan {
	return []Plan{plans[PlanBasic], plans[PlanAdvanced], plans[PlanBusiness]}
}

// MinorUnits converts the plan price into the gateway's minor currency unit.
func (p Plan) MinorUnits() int64 {
	return ToMinorUnits(p.Amount)
}

// ToMinorUnits converts a major-unit amount to minor units, truncating any
// fraction of a minor unit.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitsPerMajor).IntPart()
}
