package payroll

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bistrohq/timeclock-backend-go/internal/domain/attendance"
	"github.com/bistrohq/timeclock-backend-go/internal/domain/employee"
	"github.com/bistrohq/timeclock-backend-go/internal/domain/payroll"
	"github.com/bistrohq/timeclock-backend-go/internal/pkg/database"
	"github.com/bistrohq/timeclock-backend-go/internal/repository/postgresql"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	db             *database.DB
	payrollRepo    payroll.PayrollRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	calculator     *Calculator
	clock          clockwork.Clock
	loc            *time.Location
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	calculator *Calculator,
	clock clockwork.Clock,
	loc *time.Location,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:             db,
		payrollRepo:    payrollRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		calculator:     calculator,
		clock:          clock,
		loc:            loc,
	}
}

// periodBounds widens an inclusive date range to [startOfDay(start),
// startOfDay(end)+24h) in the business timezone, expressed in UTC.
func (s *PayrollServiceImpl) periodBounds(startDate, endDate time.Time) (time.Time, time.Time) {
	from := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, s.loc)
	to := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, s.loc).Add(24 * time.Hour)
	return from.UTC(), to.UTC()
}

// Preview implements payroll.PayrollService.
func (s *PayrollServiceImpl) Preview(ctx context.Context, req payroll.PreviewRequest) (payroll.PayrollFiguresResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollFiguresResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PayrollFiguresResponse{}, err
	}

	startDate, endDate := req.Period()
	from, to := s.periodBounds(startDate, endDate)

	records, err := s.attendanceRepo.ListApprovedInRange(ctx, emp.ID, from, to)
	if err != nil {
		return payroll.PayrollFiguresResponse{}, fmt.Errorf("failed to load approved attendance: %w", err)
	}

	figures := s.calculator.CalculateForEmployee(emp, records)
	if figures == nil {
		return payroll.PayrollFiguresResponse{}, payroll.ErrNotEligibleForPayroll
	}

	return mapFiguresToResponse(*figures), nil
}

// Generate implements payroll.PayrollService. The overlap check, the header
// and every payslip live in one transaction: concurrent calls for the same
// employees serialize on advisory locks, and any failure rolls the whole
// batch back.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	startDate, endDate := req.Period()

	var result payroll.Payroll
	err := postgresql.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		var employees []employee.Employee
		if req.EmployeeID == payroll.EmployeeFilterAll {
			var err error
			employees, err = s.employeeRepo.ListActiveWithCompensation(ctx)
			if err != nil {
				return fmt.Errorf("failed to list employees: %w", err)
			}
		} else {
			emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
			if err != nil {
				return err
			}
			employees = []employee.Employee{emp}
		}

		employeeIDs := make([]string, 0, len(employees))
		for _, emp := range employees {
			employeeIDs = append(employeeIDs, emp.ID)
		}

		if err := s.payrollRepo.AcquirePeriodLocks(ctx, employeeIDs); err != nil {
			return fmt.Errorf("failed to acquire payroll locks: %w", err)
		}

		conflictID, found, err := s.payrollRepo.FindOverlappingEmployee(ctx, employeeIDs, startDate, endDate)
		if err != nil {
			return fmt.Errorf("failed to check for overlapping payrolls: %w", err)
		}
		if found {
			return &payroll.DuplicatePayrollError{EmployeeID: conflictID}
		}

		header, err := s.payrollRepo.CreatePayroll(ctx, payroll.Payroll{
			StartDate:   startDate,
			EndDate:     endDate,
			Status:      payroll.StatusDraft,
			TotalAmount: decimal.Zero,
		})
		if err != nil {
			return fmt.Errorf("failed to create payroll: %w", err)
		}

		from, to := s.periodBounds(startDate, endDate)
		total := decimal.Zero

		for _, emp := range employees {
			records, err := s.attendanceRepo.ListApprovedInRange(ctx, emp.ID, from, to)
			if err != nil {
				return fmt.Errorf("failed to load approved attendance for employee %s: %w", emp.ID, err)
			}

			figures := s.calculator.CalculateForEmployee(emp, records)
			if figures == nil {
				continue
			}

			slip, err := s.payrollRepo.CreatePayslip(ctx, payroll.Payslip{
				PayrollID:       header.ID,
				EmployeeID:      emp.ID,
				DaysWorked:      figures.DaysWorked,
				HoursWorked:     figures.TotalHours,
				OvertimeHours:   figures.OvertimeHours,
				GrossPay:        figures.GrossPay,
				Deductions:      figures.Deductions,
				TotalDeductions: figures.TotalDeductions,
				NetPay:          figures.NetPay,
			})
			if err != nil {
				return fmt.Errorf("failed to create payslip for employee %s: %w", emp.ID, err)
			}
			slip.EmployeeName = &emp.FullName

			header.Payslips = append(header.Payslips, slip)
			total = total.Add(figures.NetPay)
		}

		if err := s.payrollRepo.UpdatePayrollTotal(ctx, header.ID, total); err != nil {
			return fmt.Errorf("failed to update payroll total: %w", err)
		}

		header.TotalAmount = total
		result = header
		return nil
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return mapPayrollToResponse(result, true), nil
}

// GetPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayroll(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	p, err := s.payrollRepo.GetPayrollByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return mapPayrollToResponse(p, true), nil
}

// ListPayrolls implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayrolls(ctx context.Context, filter payroll.PayrollListFilter) (payroll.ListPayrollResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	payrolls, total, err := s.payrollRepo.ListPayrolls(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payrolls: %w", err)
	}

	responses := make([]payroll.PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		responses = append(responses, mapPayrollToResponse(p, false))
	}

	return payroll.ListPayrollResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Payrolls:   responses,
	}, nil
}

// MarkPaid implements payroll.PayrollService. Figures are frozen at
// generation time; payment only stamps status and date.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	if err := s.payrollRepo.MarkPaid(ctx, id, s.clock.Now().UTC()); err != nil {
		return payroll.PayrollResponse{}, err
	}
	return s.GetPayroll(ctx, id)
}

// ========== HELPERS ==========

func mapFiguresToResponse(f payroll.PayrollFigures) payroll.PayrollFiguresResponse {
	return payroll.PayrollFiguresResponse{
		EmployeeID:      f.EmployeeID,
		DaysWorked:      f.DaysWorked,
		TotalHours:      f.TotalHours,
		RegularHours:    f.RegularHours,
		OvertimeHours:   f.OvertimeHours,
		HourlyRate:      f.HourlyRate,
		RegularPay:      f.RegularPay,
		OvertimePay:     f.OvertimePay,
		GrossPay:        f.GrossPay,
		Deductions:      f.Deductions,
		TotalDeductions: f.TotalDeductions,
		NetPay:          f.NetPay,
	}
}

func mapPayrollToResponse(p payroll.Payroll, includePayslips bool) payroll.PayrollResponse {
	var paymentDateStr *string
	if p.PaymentDate != nil {
		str := p.PaymentDate.Format(time.RFC3339)
		paymentDateStr = &str
	}

	resp := payroll.PayrollResponse{
		ID:          p.ID,
		StartDate:   p.StartDate.Format("2006-01-02"),
		EndDate:     p.EndDate.Format("2006-01-02"),
		Status:      string(p.Status),
		TotalAmount: p.TotalAmount,
		PaymentDate: paymentDateStr,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}

	if includePayslips {
		resp.Payslips = make([]payroll.PayslipResponse, 0, len(p.Payslips))
		for _, slip := range p.Payslips {
			resp.Payslips = append(resp.Payslips, mapPayslipToResponse(slip))
		}
	}

	return resp
}

func mapPayslipToResponse(slip payroll.Payslip) payroll.PayslipResponse {
	var employeeName string
	if slip.EmployeeName != nil {
		employeeName = *slip.EmployeeName
	}

	return payroll.PayslipResponse{
		ID:              slip.ID,
		PayrollID:       slip.PayrollID,
		EmployeeID:      slip.EmployeeID,
		EmployeeName:    employeeName,
		DaysWorked:      slip.DaysWorked,
		HoursWorked:     slip.HoursWorked,
		OvertimeHours:   slip.OvertimeHours,
		GrossPay:        slip.GrossPay,
		Deductions:      slip.Deductions,
		TotalDeductions: slip.TotalDeductions,
		NetPay:          slip.NetPay,
	}
}
