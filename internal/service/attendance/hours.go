package attendance

import (
	"time"

	"github.com/bistrohq/timeclock-backend-go/internal/config"
	"github.com/shopspring/decimal"
)

// HoursBreakdown is the result of converting one clock-in/clock-out pair
// into paid hours.
type HoursBreakdown struct {
	// NetHours is elapsed time minus the break deduction, floored at zero,
	// rounded to 2 decimals. Persisted as total_hours.
	NetHours decimal.Decimal
	// RegularHours is net hours capped at the standard workday. Derived,
	// not persisted.
	RegularHours decimal.Decimal
	// OvertimeHours is net hours beyond the standard workday, floored at
	// zero, rounded to 2 decimals.
	OvertimeHours decimal.Decimal
}

// HoursCalculator converts clock pairs into paid hours under the break
// deduction and standard workday policy. It is the single place this policy
// lives: clock-out, administrative edits and the stale-session job all go
// through it.
type HoursCalculator struct {
	policy config.PayrollPolicy
}

func NewHoursCalculator(policy config.PayrollPolicy) *HoursCalculator {
	return &HoursCalculator{policy: policy}
}

var minutesPerHour = decimal.NewFromInt(60)

// ComputeHours assumes clockOut is strictly after clockIn; the caller
// rejects inverted ranges before this point. The elapsed duration is
// truncated to whole minutes, matching the timestamp granularity of the
// clock terminal, and not rounded again until the final step.
func (c *HoursCalculator) ComputeHours(clockIn, clockOut time.Time) HoursBreakdown {
	elapsedMinutes := int64(clockOut.Sub(clockIn).Minutes())
	elapsed := decimal.NewFromInt(elapsedMinutes).Div(minutesPerHour)

	deduction := decimal.Zero
	if elapsed.GreaterThanOrEqual(c.policy.BreakDeductionThresholdHours) {
		deduction = c.policy.BreakDeductionHours
	}

	net := elapsed.Sub(deduction)
	if net.IsNegative() {
		net = decimal.Zero
	}
	net = net.Round(2)

	overtime := net.Sub(c.policy.StandardWorkDayHours)
	if overtime.IsNegative() {
		overtime = decimal.Zero
	}
	overtime = overtime.Round(2)

	// Derived from the rounded values so the split always sums to net.
	regular := net.Sub(overtime)

	return HoursBreakdown{
		NetHours:      net,
		RegularHours:  regular,
		OvertimeHours: overtime,
	}
}
