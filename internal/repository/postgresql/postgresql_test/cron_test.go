package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/bistrohq/timeclock-backend-go/internal/domain/attendance"
	"github.com/bistrohq/timeclock-backend-go/internal/pkg/cron"
	"github.com/bistrohq/timeclock-backend-go/internal/repository/postgresql"
	attendanceService "github.com/bistrohq/timeclock-backend-go/internal/service/attendance"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOpenSession(t *testing.T, ctx context.Context, employeeID string, clockIn time.Time) string {
	t.Helper()
	testInit()

	var id string
	err := testDB.QueryRow(ctx, `
		INSERT INTO attendance_records (id, employee_id, clock_in, status)
		VALUES (gen_random_uuid(), $1, $2, 'pending')
		RETURNING id
	`, employeeID, clockIn).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestAutoCloseStaleSessions(t *testing.T) {
	ctx := context.Background()
	truncateTables(t, ctx)

	forgetful := createTestEmployee(t, ctx, "C100", nil)
	onShift := createTestEmployee(t, ctx, "C101", nil)

	now := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	staleClockIn := now.Add(-30 * time.Hour)
	staleID := createOpenSession(t, ctx, forgetful, staleClockIn)
	freshID := createOpenSession(t, ctx, onShift, now.Add(-2*time.Hour))

	policy := testPayrollPolicy()
	repo := postgresql.NewAttendanceRepository(testDB)
	jobs := cron.NewAttendanceJobs(repo, attendanceService.NewHoursCalculator(policy), policy, clockwork.NewFakeClockAt(now))

	require.NoError(t, jobs.AutoCloseStaleSessions(ctx))

	closed, err := repo.GetByID(ctx, staleID)
	require.NoError(t, err)
	require.NotNil(t, closed.ClockOut)
	// The synthetic clock-out grants a standard workday plus the break
	assert.True(t, closed.ClockOut.Equal(staleClockIn.Add(9*time.Hour)), "clock out: %s", closed.ClockOut)
	require.NotNil(t, closed.TotalHours)
	assert.True(t, closed.TotalHours.Equal(decimal.NewFromInt(8)), "total hours: %s", closed.TotalHours)
	assert.True(t, closed.OvertimeHours.IsZero(), "overtime: %s", closed.OvertimeHours)
	assert.True(t, closed.IsEdited)
	assert.Equal(t, attendance.StatusPending, closed.Status)

	stillOpen, err := repo.GetByID(ctx, freshID)
	require.NoError(t, err)
	assert.Nil(t, stillOpen.ClockOut)
	assert.False(t, stillOpen.IsEdited)

	// Idempotent once everything is closed
	require.NoError(t, jobs.AutoCloseStaleSessions(ctx))
	again, err := repo.GetByID(ctx, staleID)
	require.NoError(t, err)
	assert.True(t, again.ClockOut.Equal(staleClockIn.Add(9*time.Hour)))
}
