package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bistrohq/timeclock-backend-go/internal/domain/payroll"
	"github.com/bistrohq/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Preview(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &PayrollHandlerImpl{payrollService: payrollService}
}

// Preview implements PayrollHandler.
func (h *PayrollHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := payroll.PreviewRequest{
		EmployeeID: q.Get("employee_id"),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	figures, err := h.payrollService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, figures)
}

// Generate implements PayrollHandler.
func (h *PayrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Generate payroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	p, err := h.payrollService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated successfully", p)
}

// Get implements PayrollHandler.
func (h *PayrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	p, err := h.payrollService.GetPayroll(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, p)
}

// List implements PayrollHandler.
func (h *PayrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := payroll.PayrollListFilter{}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	list, err := h.payrollService.ListPayrolls(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Payrolls, &response.Meta{
		Page:       list.Page,
		Limit:      list.Limit,
		TotalItems: list.TotalCount,
		TotalPages: list.TotalPages,
	})
}

// MarkPaid implements PayrollHandler.
func (h *PayrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	p, err := h.payrollService.MarkPaid(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll marked as paid", p)
}
