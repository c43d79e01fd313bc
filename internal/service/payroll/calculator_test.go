package payroll

import (
	"testing"
	"time"

	"github.com/bistrohq/timeclock-backend-go/internal/config"
	"github.com/bistrohq/timeclock-backend-go/internal/domain/attendance"
	"github.com/bistrohq/timeclock-backend-go/internal/domain/employee"
	"github.com/bistrohq/timeclock-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() config.PayrollPolicy {
	return config.PayrollPolicy{
		BreakDeductionThresholdHours: decimal.NewFromInt(6),
		BreakDeductionHours:          decimal.NewFromInt(1),
		StandardWorkDayHours:         decimal.NewFromInt(8),
		OvertimeRateMultiplier:       decimal.NewFromFloat(1.25),
		MinimumDaysForDeductions:     14,
		StaleSessionCutoffHours:      20,
	}
}

func testEmployee() employee.Employee {
	return employee.Employee{
		ID:           "emp-1",
		EmployeeCode: "E001",
		FullName:     "Maria Santos",
		HourlyRate:   decimal.NewFromInt(100),
		BasicSalary:  decimal.NewFromInt(15000),
	}
}

func approvedRecord(total, overtime float64) attendance.AttendanceRecord {
	t := decimal.NewFromFloat(total)
	return attendance.AttendanceRecord{
		EmployeeID:    "emp-1",
		ClockIn:       time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		TotalHours:    &t,
		OvertimeHours: decimal.NewFromFloat(overtime),
		Status:        attendance.StatusApproved,
	}
}

func TestCalculateForEmployee_FullPeriodWithDeductions(t *testing.T) {
	calc := NewCalculator(testPolicy())
	emp := testEmployee()

	// 14 workdays of 8h plus 2h overtime on one of them
	records := make([]attendance.AttendanceRecord, 0, 14)
	for i := 0; i < 13; i++ {
		records = append(records, approvedRecord(8, 0))
	}
	records = append(records, approvedRecord(10, 2))

	figures := calc.CalculateForEmployee(emp, records)
	require.NotNil(t, figures)

	assert.Equal(t, 14, figures.DaysWorked)
	assert.True(t, figures.TotalHours.Equal(decimal.NewFromInt(114)), "total hours: %s", figures.TotalHours)
	assert.True(t, figures.RegularHours.Equal(decimal.NewFromInt(112)), "regular hours: %s", figures.RegularHours)
	assert.True(t, figures.OvertimeHours.Equal(decimal.NewFromInt(2)), "overtime hours: %s", figures.OvertimeHours)

	// 112h * 100 + 2h * 100 * 1.25
	assert.True(t, figures.RegularPay.Equal(decimal.NewFromInt(11200)), "regular pay: %s", figures.RegularPay)
	assert.True(t, figures.OvertimePay.Equal(decimal.NewFromInt(250)), "overtime pay: %s", figures.OvertimePay)
	assert.True(t, figures.GrossPay.Equal(decimal.NewFromInt(11450)), "gross pay: %s", figures.GrossPay)

	// Semi-monthly halves of the monthly contributions on a 15000 basic salary
	assert.True(t, figures.Deductions[payroll.DeductionSSS].Equal(decimal.NewFromFloat(337.5)),
		"sss: %s", figures.Deductions[payroll.DeductionSSS])
	assert.True(t, figures.Deductions[payroll.DeductionPhilhealth].Equal(decimal.NewFromFloat(187.5)),
		"philhealth: %s", figures.Deductions[payroll.DeductionPhilhealth])
	assert.True(t, figures.Deductions[payroll.DeductionPagibig].Equal(decimal.NewFromInt(100)),
		"pagibig: %s", figures.Deductions[payroll.DeductionPagibig])
	assert.True(t, figures.Deductions[payroll.DeductionTax].IsZero(),
		"tax: %s", figures.Deductions[payroll.DeductionTax])

	assert.True(t, figures.TotalDeductions.Equal(decimal.NewFromInt(625)), "total deductions: %s", figures.TotalDeductions)
	assert.True(t, figures.NetPay.Equal(decimal.NewFromFloat(10825)), "net pay: %s", figures.NetPay)
}

func TestCalculateForEmployee_ShortPeriodSkipsDeductions(t *testing.T) {
	calc := NewCalculator(testPolicy())
	emp := testEmployee()

	records := []attendance.AttendanceRecord{
		approvedRecord(8, 0),
		approvedRecord(8, 0),
		approvedRecord(8, 0),
	}

	figures := calc.CalculateForEmployee(emp, records)
	require.NotNil(t, figures)

	assert.Equal(t, 3, figures.DaysWorked)
	assert.True(t, figures.TotalDeductions.IsZero(), "total deductions: %s", figures.TotalDeductions)
	for key, amount := range figures.Deductions {
		assert.True(t, amount.IsZero(), "%s: %s", key, amount)
	}
	assert.True(t, figures.NetPay.Equal(figures.GrossPay), "net %s != gross %s", figures.NetPay, figures.GrossPay)
}

func TestCalculateForEmployee_SplitShiftCountsTwice(t *testing.T) {
	calc := NewCalculator(testPolicy())
	emp := testEmployee()

	// Two records on the same calendar day still count as two worked days
	records := []attendance.AttendanceRecord{
		approvedRecord(4, 0),
		approvedRecord(4, 0),
	}

	figures := calc.CalculateForEmployee(emp, records)
	require.NotNil(t, figures)
	assert.Equal(t, 2, figures.DaysWorked)
}

func TestCalculateForEmployee_OpenRecordsAreSkipped(t *testing.T) {
	calc := NewCalculator(testPolicy())
	emp := testEmployee()

	open := attendance.AttendanceRecord{
		EmployeeID: "emp-1",
		ClockIn:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Status:     attendance.StatusApproved,
	}
	records := []attendance.AttendanceRecord{open, approvedRecord(8, 0)}

	figures := calc.CalculateForEmployee(emp, records)
	require.NotNil(t, figures)
	assert.Equal(t, 1, figures.DaysWorked)
	assert.True(t, figures.TotalHours.Equal(decimal.NewFromInt(8)), "total hours: %s", figures.TotalHours)
}

func TestCalculateForEmployee_NoPayableHoursReturnsNil(t *testing.T) {
	calc := NewCalculator(testPolicy())
	emp := testEmployee()

	assert.Nil(t, calc.CalculateForEmployee(emp, nil))

	zero := decimal.Zero
	records := []attendance.AttendanceRecord{{
		EmployeeID:    "emp-1",
		TotalHours:    &zero,
		OvertimeHours: decimal.Zero,
	}}
	assert.Nil(t, calc.CalculateForEmployee(emp, records))
}

func TestCalculateForEmployee_NoCompensationProfileReturnsNil(t *testing.T) {
	calc := NewCalculator(testPolicy())
	emp := testEmployee()
	emp.HourlyRate = decimal.Zero

	figures := calc.CalculateForEmployee(emp, []attendance.AttendanceRecord{approvedRecord(8, 0)})
	assert.Nil(t, figures)
}

func TestCalculateForEmployee_NetPayFlooredAtZero(t *testing.T) {
	calc := NewCalculator(testPolicy())
	emp := testEmployee()
	emp.HourlyRate = decimal.NewFromFloat(0.01)

	records := make([]attendance.AttendanceRecord, 0, 14)
	for i := 0; i < 14; i++ {
		records = append(records, approvedRecord(1, 0))
	}

	figures := calc.CalculateForEmployee(emp, records)
	require.NotNil(t, figures)
	assert.True(t, figures.NetPay.IsZero(), "net pay: %s", figures.NetPay)
}

func TestStatutoryDeductions_CapsAndFloors(t *testing.T) {
	// SSS capped at the 30000 salary ceiling
	high := statutoryDeductions(decimal.NewFromInt(90000))
	assert.True(t, high[payroll.DeductionSSS].Equal(decimal.NewFromFloat(1350)),
		"sss: %s", high[payroll.DeductionSSS])

	// PhilHealth floored at the 10000 salary floor
	low := statutoryDeductions(decimal.NewFromInt(5000))
	assert.True(t, low[payroll.DeductionPhilhealth].Equal(decimal.NewFromFloat(250)),
		"philhealth: %s", low[payroll.DeductionPhilhealth])

	assert.True(t, low[payroll.DeductionPagibig].Equal(decimal.NewFromInt(100)),
		"pagibig: %s", low[payroll.DeductionPagibig])

	// Pag-IBIG drops to the 1% rate at or below 1500
	minimal := statutoryDeductions(decimal.NewFromInt(1500))
	assert.True(t, minimal[payroll.DeductionPagibig].Equal(decimal.NewFromInt(15)),
		"pagibig: %s", minimal[payroll.DeductionPagibig])

	// Pag-IBIG capped at 200
	assert.True(t, high[payroll.DeductionPagibig].Equal(decimal.NewFromInt(200)),
		"pagibig: %s", high[payroll.DeductionPagibig])
}
