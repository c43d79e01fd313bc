package attendance

import "errors"

// Attendance domain errors
var (
	// Clock terminal errors
	ErrAlreadyClockedIn      = errors.New("you already have an open shift, clock out first")
	ErrAlreadyCompletedToday = errors.New("you have already completed a shift today")
	ErrNoActiveSession       = errors.New("you have no open shift to clock out of")
	ErrInvalidPin            = errors.New("invalid PIN")

	// Administrative edit errors
	ErrInvalidClockRange = errors.New("clock-out must be after clock-in")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
