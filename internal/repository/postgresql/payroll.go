package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/bistrohq/timeclock-backend-go/internal/domain/payroll"
	"github.com/bistrohq/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// AcquirePeriodLocks implements payroll.PayrollRepository.
// Locks are taken in sorted order so two concurrent Generate calls over
// overlapping employee sets never deadlock.
func (r *payrollRepository) AcquirePeriodLocks(ctx context.Context, employeeIDs []string) error {
	q := GetQuerier(ctx, r.db)

	ids := make([]string, len(employeeIDs))
	copy(ids, employeeIDs)
	sort.Strings(ids)

	for _, id := range ids {
		if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, id); err != nil {
			return fmt.Errorf("failed to acquire payroll lock: %w", err)
		}
	}

	return nil
}

// FindOverlappingEmployee implements payroll.PayrollRepository.
func (r *payrollRepository) FindOverlappingEmployee(ctx context.Context, employeeIDs []string, startDate, endDate time.Time) (string, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ps.employee_id
		FROM payslips ps
		JOIN payrolls p ON p.id = ps.payroll_id
		WHERE ps.employee_id = ANY($1)
		  AND p.start_date <= $3
		  AND p.end_date >= $2
		LIMIT 1
	`

	var employeeID string
	err := q.QueryRow(ctx, query, employeeIDs, startDate, endDate).Scan(&employeeID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to check overlapping payrolls: %w", err)
	}

	return employeeID, true, nil
}

// CreatePayroll implements payroll.PayrollRepository.
func (r *payrollRepository) CreatePayroll(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	p.ID = uuid.NewString()

	query := `
		INSERT INTO payrolls (id, start_date, end_date, status, total_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.ID,
		p.StartDate,
		p.EndDate,
		p.Status,
		p.TotalAmount,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}

	return p, nil
}

// CreatePayslip implements payroll.PayrollRepository.
func (r *payrollRepository) CreatePayslip(ctx context.Context, slip payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	slip.ID = uuid.NewString()

	deductionsJSON, err := json.Marshal(slip.Deductions)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to marshal deductions: %w", err)
	}

	query := `
		INSERT INTO payslips (
			id, payroll_id, employee_id, days_worked, hours_worked, overtime_hours,
			gross_pay, deductions, total_deductions, net_pay
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		slip.ID,
		slip.PayrollID,
		slip.EmployeeID,
		slip.DaysWorked,
		slip.HoursWorked,
		slip.OvertimeHours,
		slip.GrossPay,
		deductionsJSON,
		slip.TotalDeductions,
		slip.NetPay,
	).Scan(&slip.CreatedAt)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}

	return slip, nil
}

// UpdatePayrollTotal implements payroll.PayrollRepository.
func (r *payrollRepository) UpdatePayrollTotal(ctx context.Context, payrollID string, total decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET total_amount = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, payrollID, total)
	if err != nil {
		return fmt.Errorf("failed to update payroll total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}

	return nil
}

// GetPayrollByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetPayrollByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, start_date, end_date, status, total_amount, payment_date, created_at, updated_at
		FROM payrolls
		WHERE id = $1
	`

	var p payroll.Payroll
	err := q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.StartDate, &p.EndDate, &p.Status, &p.TotalAmount,
		&p.PaymentDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}

	slips, err := r.listPayslips(ctx, q, p.ID)
	if err != nil {
		return payroll.Payroll{}, err
	}
	p.Payslips = slips

	return p, nil
}

func (r *payrollRepository) listPayslips(ctx context.Context, q database.Querier, payrollID string) ([]payroll.Payslip, error) {
	query := `
		SELECT
			ps.id, ps.payroll_id, ps.employee_id, ps.days_worked, ps.hours_worked,
			ps.overtime_hours, ps.gross_pay, ps.deductions, ps.total_deductions,
			ps.net_pay, ps.created_at, e.full_name
		FROM payslips ps
		JOIN employees e ON e.id = ps.employee_id
		WHERE ps.payroll_id = $1
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, payrollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var slips []payroll.Payslip
	for rows.Next() {
		var slip payroll.Payslip
		var deductionsJSON []byte
		err := rows.Scan(
			&slip.ID, &slip.PayrollID, &slip.EmployeeID, &slip.DaysWorked, &slip.HoursWorked,
			&slip.OvertimeHours, &slip.GrossPay, &deductionsJSON, &slip.TotalDeductions,
			&slip.NetPay, &slip.CreatedAt, &slip.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		if err := json.Unmarshal(deductionsJSON, &slip.Deductions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal deductions: %w", err)
		}
		slips = append(slips, slip)
	}

	return slips, rows.Err()
}

// ListPayrolls implements payroll.PayrollRepository.
func (r *payrollRepository) ListPayrolls(ctx context.Context, filter payroll.PayrollListFilter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "1=1"
	args := []interface{}{}
	argPos := 1

	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM payrolls WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, start_date, end_date, status, total_amount, payment_date, created_at, updated_at
		FROM payrolls
		WHERE `+where+`
		ORDER BY start_date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		var p payroll.Payroll
		err := rows.Scan(
			&p.ID, &p.StartDate, &p.EndDate, &p.Status, &p.TotalAmount,
			&p.PaymentDate, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}

	return payrolls, total, rows.Err()
}

// MarkPaid implements payroll.PayrollRepository.
func (r *payrollRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	// The status guard makes the transition atomic under concurrent requests.
	query := `
		UPDATE payrolls
		SET status = $2, payment_date = $3, updated_at = NOW()
		WHERE id = $1 AND status <> $2
	`

	tag, err := q.Exec(ctx, query, id, payroll.StatusPaid, paidAt)
	if err != nil {
		return fmt.Errorf("failed to mark payroll paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM payrolls WHERE id = $1)`
		if err := q.QueryRow(ctx, checkQuery, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check payroll existence: %w", err)
		}
		if !exists {
			return payroll.ErrPayrollNotFound
		}
		return payroll.ErrPayrollAlreadyPaid
	}

	return nil
}
