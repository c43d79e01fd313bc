package payroll

import (
	"time"

	"github.com/bistrohq/timeclock-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// EmployeeFilterAll selects every active employee with a compensation profile.
const EmployeeFilterAll = "all"

// ========================================
// REQUESTS
// ========================================

type GeneratePayrollRequest struct {
	StartDate  string `json:"start_date"` // "2006-01-02", inclusive
	EndDate    string `json:"end_date"`   // "2006-01-02", inclusive
	EmployeeID string `json:"employee_id"` // "all" or a single employee id

	parsedStart time.Time
	parsedEnd   time.Time
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}
	end, ok := validator.IsValidDate(r.EndDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
	}
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required (\"all\" or an employee id)"})
	} else if r.EmployeeID != EmployeeFilterAll && !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be \"all\" or a valid employee id"})
	}
	if len(errs) == 0 && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}

	r.parsedStart = start
	r.parsedEnd = end

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Period returns the validated inclusive date range. Validate must be called first.
func (r *GeneratePayrollRequest) Period() (time.Time, time.Time) {
	return r.parsedStart, r.parsedEnd
}

type PreviewRequest struct {
	EmployeeID string
	StartDate  string
	EndDate    string

	parsedStart time.Time
	parsedEnd   time.Time
}

func (r *PreviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid employee id"})
	}
	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}
	end, ok := validator.IsValidDate(r.EndDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
	}
	if len(errs) == 0 && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}

	r.parsedStart = start
	r.parsedEnd = end

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *PreviewRequest) Period() (time.Time, time.Time) {
	return r.parsedStart, r.parsedEnd
}

type PayrollListFilter struct {
	Status *string
	Page   int
	Limit  int
}

func (f *PayrollListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{string(StatusDraft), string(StatusPaid)}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be draft or paid"})
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// RESPONSES
// ========================================

type PayslipResponse struct {
	ID              string                     `json:"id"`
	PayrollID       string                     `json:"payroll_id"`
	EmployeeID      string                     `json:"employee_id"`
	EmployeeName    string                     `json:"employee_name,omitempty"`
	DaysWorked      int                        `json:"days_worked"`
	HoursWorked     decimal.Decimal            `json:"hours_worked"`
	OvertimeHours   decimal.Decimal            `json:"overtime_hours"`
	GrossPay        decimal.Decimal            `json:"gross_pay"`
	Deductions      map[string]decimal.Decimal `json:"deductions"`
	TotalDeductions decimal.Decimal            `json:"total_deductions"`
	NetPay          decimal.Decimal            `json:"net_pay"`
}

type PayrollResponse struct {
	ID          string            `json:"id"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Status      string            `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	PaymentDate *string           `json:"payment_date,omitempty"`
	CreatedAt   string            `json:"created_at"`
	Payslips    []PayslipResponse `json:"payslips,omitempty"`
}

type ListPayrollResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Payrolls   []PayrollResponse `json:"payrolls"`
}

type PayrollFiguresResponse struct {
	EmployeeID      string                     `json:"employee_id"`
	DaysWorked      int                        `json:"days_worked"`
	TotalHours      decimal.Decimal            `json:"total_hours"`
	RegularHours    decimal.Decimal            `json:"regular_hours"`
	OvertimeHours   decimal.Decimal            `json:"overtime_hours"`
	HourlyRate      decimal.Decimal            `json:"hourly_rate"`
	RegularPay      decimal.Decimal            `json:"regular_pay"`
	OvertimePay     decimal.Decimal            `json:"overtime_pay"`
	GrossPay        decimal.Decimal            `json:"gross_pay"`
	Deductions      map[string]decimal.Decimal `json:"deductions"`
	TotalDeductions decimal.Decimal            `json:"total_deductions"`
	NetPay          decimal.Decimal            `json:"net_pay"`
}
