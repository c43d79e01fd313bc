package payroll

import (
	"github.com/bistrohq/timeclock-backend-go/internal/config"
	"github.com/bistrohq/timeclock-backend-go/internal/domain/attendance"
	"github.com/bistrohq/timeclock-backend-go/internal/domain/employee"
	"github.com/bistrohq/timeclock-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Statutory contribution parameters (monthly basis, PHP).
var (
	sssRate        = decimal.NewFromFloat(0.045)
	sssSalaryCap   = decimal.NewFromInt(30000)
	philhealthRate = decimal.NewFromFloat(0.05)
	philhealthMin  = decimal.NewFromInt(10000)
	philhealthMax  = decimal.NewFromInt(100000)
	pagibigLowRate = decimal.NewFromFloat(0.01)
	pagibigRate    = decimal.NewFromFloat(0.02)
	pagibigLowCap  = decimal.NewFromInt(1500)
	pagibigMax     = decimal.NewFromInt(200)
	two            = decimal.NewFromInt(2)
)

// Calculator turns an employee's approved attendance over a pay period into
// pay figures. Pure: callers fetch the records; nothing is persisted here.
type Calculator struct {
	policy config.PayrollPolicy
}

func NewCalculator(policy config.PayrollPolicy) *Calculator {
	return &Calculator{policy: policy}
}

// CalculateForEmployee returns nil when the employee has nothing payable in
// the period (no approved hours, or no compensation profile). That is a
// skip, not an error.
//
// daysWorked counts attendance records, not distinct calendar days: a split
// shift contributes twice. The deduction cutoff below depends on this count,
// so changing it is a payroll policy change, not a cleanup.
func (c *Calculator) CalculateForEmployee(emp employee.Employee, records []attendance.AttendanceRecord) *payroll.PayrollFigures {
	totalHours := decimal.Zero
	overtimeHours := decimal.Zero
	daysWorked := 0

	for _, rec := range records {
		if rec.TotalHours == nil {
			continue
		}
		totalHours = totalHours.Add(*rec.TotalHours)
		overtimeHours = overtimeHours.Add(rec.OvertimeHours)
		daysWorked++
	}

	if !totalHours.IsPositive() || !emp.HasCompensationProfile() {
		return nil
	}

	regularHours := totalHours.Sub(overtimeHours)
	if regularHours.IsNegative() {
		regularHours = decimal.Zero
	}

	regularPay := regularHours.Mul(emp.HourlyRate)
	overtimePay := overtimeHours.Mul(emp.HourlyRate).Mul(c.policy.OvertimeRateMultiplier)
	grossPay := regularPay.Add(overtimePay)

	deductions := statutoryDeductions(emp.BasicSalary)

	// Monthly contributions are charged on the semi-monthly cutoff: periods
	// covering at least the minimum worked days carry half the monthly
	// amount, shorter periods carry none.
	if daysWorked >= c.policy.MinimumDaysForDeductions {
		for key, amount := range deductions {
			deductions[key] = amount.Div(two).Round(2)
		}
	} else {
		for key := range deductions {
			deductions[key] = decimal.Zero
		}
	}

	totalDeductions := decimal.Zero
	for _, amount := range deductions {
		totalDeductions = totalDeductions.Add(amount)
	}

	netPay := grossPay.Sub(totalDeductions)
	if netPay.IsNegative() {
		netPay = decimal.Zero
	}

	return &payroll.PayrollFigures{
		EmployeeID:      emp.ID,
		DaysWorked:      daysWorked,
		TotalHours:      totalHours,
		RegularHours:    regularHours,
		OvertimeHours:   overtimeHours,
		HourlyRate:      emp.HourlyRate,
		RegularPay:      regularPay,
		OvertimePay:     overtimePay,
		GrossPay:        grossPay,
		Deductions:      deductions,
		TotalDeductions: totalDeductions,
		NetPay:          netPay,
	}
}

// statutoryDeductions computes the monthly government contributions from the
// monthly basic salary, each rounded to 2 decimals independently. Tax is a
// constant zero placeholder until a withholding table is adopted.
func statutoryDeductions(monthlyBasicSalary decimal.Decimal) map[string]decimal.Decimal {
	sss := decimal.Min(monthlyBasicSalary, sssSalaryCap).Mul(sssRate).Round(2)

	philhealthBase := decimal.Min(decimal.Max(monthlyBasicSalary, philhealthMin), philhealthMax)
	philhealth := philhealthBase.Mul(philhealthRate).Div(two).Round(2)

	rate := pagibigRate
	if monthlyBasicSalary.LessThanOrEqual(pagibigLowCap) {
		rate = pagibigLowRate
	}
	pagibig := decimal.Min(monthlyBasicSalary.Mul(rate), pagibigMax).Round(2)

	return map[string]decimal.Decimal{
		payroll.DeductionSSS:        sss,
		payroll.DeductionPhilhealth: philhealth,
		payroll.DeductionPagibig:    pagibig,
		payroll.DeductionTax:        decimal.Zero,
	}
}
