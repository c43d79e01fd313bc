package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bistrohq/timeclock-backend-go/internal/domain/attendance"
	"github.com/bistrohq/timeclock-backend-go/internal/domain/employee"
	"github.com/bistrohq/timeclock-backend-go/internal/pkg/database"
	"github.com/bistrohq/timeclock-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

type AttendanceServiceImpl struct {
	db             *database.DB
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	hours          *HoursCalculator
	clock          clockwork.Clock
	loc            *time.Location
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	hours *HoursCalculator,
	clock clockwork.Clock,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:             db,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		hours:          hours,
		clock:          clock,
		loc:            loc,
	}
}

// verifyPin checks the supplied PIN against the employee's configured hash.
// Employees without a PIN are not challenged.
func verifyPin(emp employee.Employee, pin *string) error {
	if emp.PinHash == nil {
		return nil
	}
	if pin == nil {
		return attendance.ErrInvalidPin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*emp.PinHash), []byte(*pin)); err != nil {
		return attendance.ErrInvalidPin
	}
	return nil
}

// businessDayBounds returns [from, to) UTC bounds of the business-local
// calendar day containing t.
func (s *AttendanceServiceImpl) businessDayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(s.loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return from.UTC(), from.Add(24 * time.Hour).UTC()
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now().UTC()

	var created attendance.AttendanceRecord
	err := postgresql.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		// Row lock on the employee serializes concurrent clock events so
		// the open-session check and the insert are atomic.
		emp, err := s.employeeRepo.GetByIDForUpdate(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		if err := verifyPin(emp, req.Pin); err != nil {
			return err
		}

		open, err := s.attendanceRepo.GetOpenSession(ctx, emp.ID)
		if err != nil {
			return fmt.Errorf("failed to check open session: %w", err)
		}
		if open != nil {
			return attendance.ErrAlreadyClockedIn
		}

		dayStart, dayEnd := s.businessDayBounds(now)
		completed, err := s.attendanceRepo.HasCompletedBetween(ctx, emp.ID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("failed to check completed shifts: %w", err)
		}
		if completed {
			return attendance.ErrAlreadyCompletedToday
		}

		created, err = s.attendanceRepo.Create(ctx, attendance.AttendanceRecord{
			EmployeeID: emp.ID,
			ClockIn:    now,
			Status:     attendance.StatusPending,
		})
		if err != nil {
			return fmt.Errorf("failed to create attendance record: %w", err)
		}
		created.EmployeeName = &emp.FullName

		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapRecordToResponse(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now().UTC()

	var updated attendance.AttendanceRecord
	err := postgresql.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByIDForUpdate(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		if err := verifyPin(emp, req.Pin); err != nil {
			return err
		}

		open, err := s.attendanceRepo.GetOpenSession(ctx, emp.ID)
		if err != nil {
			return fmt.Errorf("failed to get open session: %w", err)
		}
		if open == nil {
			return attendance.ErrNoActiveSession
		}

		breakdown := s.hours.ComputeHours(open.ClockIn, now)

		open.ClockOut = &now
		open.TotalHours = &breakdown.NetHours
		open.OvertimeHours = breakdown.OvertimeHours

		if err := s.attendanceRepo.Update(ctx, *open); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}

		updated = *open
		updated.EmployeeName = &emp.FullName
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapRecordToResponse(updated), nil
}

// AdminUpdate implements attendance.AttendanceService.
// Managers use this to fix wrong clock times; hours go through the same
// calculator as clock-out so the break policy never diverges.
func (s *AttendanceServiceImpl) AdminUpdate(ctx context.Context, req attendance.AdminUpdateRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	newClockIn, newClockOut := req.ParsedTimes()

	rec, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	clockOut := rec.ClockOut
	if newClockOut != nil {
		out := newClockOut.UTC()
		clockOut = &out
	}
	if clockOut != nil && !clockOut.After(newClockIn) {
		return attendance.AttendanceResponse{}, attendance.ErrInvalidClockRange
	}

	rec.ClockIn = newClockIn.UTC()
	rec.ClockOut = clockOut
	rec.IsEdited = true

	if clockOut != nil {
		breakdown := s.hours.ComputeHours(rec.ClockIn, *clockOut)
		rec.TotalHours = &breakdown.NetHours
		rec.OvertimeHours = breakdown.OvertimeHours
	}

	// Approval status is deliberately untouched here.
	if err := s.attendanceRepo.Update(ctx, rec); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	updated, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get updated attendance record: %w", err)
	}

	return mapRecordToResponse(updated), nil
}

// Approve implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Approve(ctx context.Context, req attendance.ApproveRequest) (attendance.AttendanceResponse, error) {
	return s.setStatus(ctx, req.ID, attendance.StatusApproved)
}

// Reject implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Reject(ctx context.Context, req attendance.RejectRequest) (attendance.AttendanceResponse, error) {
	return s.setStatus(ctx, req.ID, attendance.StatusRejected)
}

func (s *AttendanceServiceImpl) setStatus(ctx context.Context, id string, status attendance.Status) (attendance.AttendanceResponse, error) {
	rec, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// Re-applying the same status is a no-op success, not an error.
	if rec.Status == status {
		return mapRecordToResponse(rec), nil
	}

	userID := reviewerFromContext(ctx)
	now := s.clock.Now().UTC()
	rec.Status = status
	rec.ApprovedBy = userID
	rec.ApprovedAt = &now

	if err := s.attendanceRepo.Update(ctx, rec); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to set attendance status: %w", err)
	}

	updated, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get updated attendance record: %w", err)
	}

	return mapRecordToResponse(updated), nil
}

// reviewerFromContext extracts the acting user id from the JWT claims, when
// present. Approval can also come from trusted internal jobs with no token.
func reviewerFromContext(ctx context.Context) *string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil
	}
	return &userID
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	rec, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return mapRecordToResponse(rec), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapRecordToResponse(rec))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Attendances: responses,
	}, nil
}

// ListPending implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListPending(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	pending := string(attendance.StatusPending)
	filter.Status = &pending
	return s.ListAttendance(ctx, filter)
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func mapRecordToResponse(rec attendance.AttendanceRecord) attendance.AttendanceResponse {
	var employeeName string
	if rec.EmployeeName != nil {
		employeeName = *rec.EmployeeName
	}

	return attendance.AttendanceResponse{
		ID:            rec.ID,
		EmployeeID:    rec.EmployeeID,
		EmployeeName:  employeeName,
		ClockIn:       rec.ClockIn.Format(time.RFC3339),
		ClockOut:      timePtrToString(rec.ClockOut),
		TotalHours:    rec.TotalHours,
		OvertimeHours: rec.OvertimeHours,
		Status:        string(rec.Status),
		IsEdited:      rec.IsEdited,
		ApprovedBy:    rec.ApprovedBy,
		ApprovedAt:    timePtrToString(rec.ApprovedAt),
		CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     rec.UpdatedAt.Format(time.RFC3339),
	}
}
