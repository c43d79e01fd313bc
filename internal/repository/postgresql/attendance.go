package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bistrohq/timeclock-backend-go/internal/domain/attendance"
	"github.com/bistrohq/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.clock_in, a.clock_out, a.total_hours, a.overtime_hours,
	a.status, a.is_edited, a.approved_by, a.approved_at, a.created_at, a.updated_at,
	e.full_name
`

func scanAttendance(row pgx.Row) (attendance.AttendanceRecord, error) {
	var rec attendance.AttendanceRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.ClockIn, &rec.ClockOut, &rec.TotalHours, &rec.OvertimeHours,
		&rec.Status, &rec.IsEdited, &rec.ApprovedBy, &rec.ApprovedAt, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName,
	)
	return rec, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	record.ID = uuid.NewString()

	query := `
		INSERT INTO attendance_records (
			id, employee_id, clock_in, clock_out, total_hours, overtime_hours,
			status, is_edited
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.ClockIn,
		record.ClockOut,
		record.TotalHours,
		record.OvertimeHours,
		record.Status,
		record.IsEdited,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		// Backstop for the open-session invariant; the service's row lock
		// normally prevents ever hitting the index.
		if strings.Contains(err.Error(), "uidx_attendance_open_session") {
			return attendance.AttendanceRecord{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return rec, nil
}

// GetOpenSession implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetOpenSession(ctx context.Context, employeeID string) (*attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1
		  AND a.clock_out IS NULL
		ORDER BY a.clock_in DESC
		LIMIT 1
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}

	return &rec, nil
}

// HasCompletedBetween implements attendance.AttendanceRepository.
func (r *attendanceRepository) HasCompletedBetween(ctx context.Context, employeeID string, from, to time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM attendance_records
			WHERE employee_id = $1
			  AND clock_out IS NOT NULL
			  AND clock_in >= $2
			  AND clock_in < $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, from, to).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check completed records: %w", err)
	}

	return exists, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, record attendance.AttendanceRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET clock_in = $2,
			clock_out = $3,
			total_hours = $4,
			overtime_hours = $5,
			status = $6,
			is_edited = $7,
			approved_by = $8,
			approved_at = $9,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		record.ID,
		record.ClockIn,
		record.ClockOut,
		record.TotalHours,
		record.OvertimeHours,
		record.Status,
		record.IsEdited,
		record.ApprovedBy,
		record.ApprovedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil {
		where = append(where, fmt.Sprintf("a.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("a.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.StartDate != nil {
		where = append(where, fmt.Sprintf("a.clock_in >= $%d::date", argPos))
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil {
		where = append(where, fmt.Sprintf("a.clock_in < $%d::date + INTERVAL '1 day'", argPos))
		args = append(args, *filter.EndDate)
		argPos++
	}

	whereClause := strings.Join(where, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM attendance_records a
		WHERE ` + whereClause

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+attendanceColumns+`
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE `+whereClause+`
		ORDER BY a.clock_in DESC
		LIMIT $%d OFFSET $%d
	`, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

// ListApprovedInRange implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1
		  AND a.status = 'approved'
		  AND a.clock_in >= $2
		  AND a.clock_in < $3
		ORDER BY a.clock_in
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetStaleOpenSessions implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetStaleOpenSessions(ctx context.Context, cutoff time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.clock_out IS NULL
		  AND a.clock_in < $1
		ORDER BY a.clock_in
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale open sessions: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
