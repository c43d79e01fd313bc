package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bistrohq/timeclock-backend-go/internal/domain/attendance"
	"github.com/bistrohq/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)

	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// ClockIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockInRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ClockIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	rec, err := h.attendanceService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in successfully", rec)
}

// ClockOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockOutRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ClockOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	rec, err := h.attendanceService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out successfully", rec)
}

// Get implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Attendance ID is required", nil)
		return
	}

	rec, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rec)
}

// List implements AttendanceHandler.
func (h *AttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendanceFilterFromQuery(r)

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	list, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Attendances, &response.Meta{
		Page:       list.Page,
		Limit:      list.Limit,
		TotalItems: list.TotalCount,
		TotalPages: list.TotalPages,
	})
}

// ListPending implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	filter := attendanceFilterFromQuery(r)
	filter.Status = nil

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	list, err := h.attendanceService.ListPending(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Attendances, &response.Meta{
		Page:       list.Page,
		Limit:      list.Limit,
		TotalItems: list.TotalCount,
		TotalPages: list.TotalPages,
	})
}

// Update implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.AdminUpdateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	rec, err := h.attendanceService.AdminUpdate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record updated successfully", rec)
}

// Approve implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	req := attendance.ApproveRequest{ID: chi.URLParam(r, "id")}
	if req.ID == "" {
		response.BadRequest(w, "Attendance ID is required", nil)
		return
	}

	rec, err := h.attendanceService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record approved successfully", rec)
}

// Reject implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	req := attendance.RejectRequest{ID: chi.URLParam(r, "id")}
	if req.ID == "" {
		response.BadRequest(w, "Attendance ID is required", nil)
		return
	}

	rec, err := h.attendanceService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record rejected successfully", rec)
}

func attendanceFilterFromQuery(r *http.Request) attendance.AttendanceFilter {
	q := r.URL.Query()

	filter := attendance.AttendanceFilter{}
	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	return filter
}
