package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bistrohq/timeclock-backend-go/internal/config"
	"github.com/bistrohq/timeclock-backend-go/internal/domain/attendance"
	attendancesvc "github.com/bistrohq/timeclock-backend-go/internal/service/attendance"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

var decimalSixty = decimal.NewFromInt(60)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	hours          *attendancesvc.HoursCalculator
	policy         config.PayrollPolicy
	clock          clockwork.Clock
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	hours *attendancesvc.HoursCalculator,
	policy config.PayrollPolicy,
	clock clockwork.Clock,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		hours:          hours,
		policy:         policy,
		clock:          clock,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_sessions", 1*time.Hour, j.AutoCloseStaleSessions)
}

// AutoCloseStaleSessions closes open sessions whose clock-in is older than
// the configured cutoff. The synthetic clock-out grants a standard workday
// plus the break, so net hours come out at the standard workday. Records
// are flagged edited and left pending so an administrator reviews them.
func (j *AttendanceJobs) AutoCloseStaleSessions(ctx context.Context) error {
	cutoff := j.clock.Now().UTC().Add(-time.Duration(j.policy.StaleSessionCutoffHours) * time.Hour)

	staleSessions, err := j.attendanceRepo.GetStaleOpenSessions(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to get stale sessions: %w", err)
	}

	if len(staleSessions) == 0 {
		return nil
	}

	slog.Info("Cron: closing stale attendance sessions", "count", len(staleSessions))

	grantedHours := j.policy.StandardWorkDayHours.Add(j.policy.BreakDeductionHours)
	grantedMinutes := grantedHours.Mul(decimalSixty).IntPart()

	closedCount := 0
	for _, session := range staleSessions {
		clockOut := session.ClockIn.Add(time.Duration(grantedMinutes) * time.Minute)
		breakdown := j.hours.ComputeHours(session.ClockIn, clockOut)

		session.ClockOut = &clockOut
		session.TotalHours = &breakdown.NetHours
		session.OvertimeHours = breakdown.OvertimeHours
		session.IsEdited = true

		if err := j.attendanceRepo.Update(ctx, session); err != nil {
			slog.Error("Cron: failed to close stale session",
				"attendance_id", session.ID,
				"employee_id", session.EmployeeID,
				"error", err)
			continue
		}
		closedCount++
	}

	slog.Info("Cron: stale sessions closed", "closed", closedCount, "total", len(staleSessions))
	return nil
}
