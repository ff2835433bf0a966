package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/employee-registry-api/internal/domain"
	"github.com/employee-registry-api/internal/dto"
	"github.com/employee-registry-api/internal/metrics"
	"github.com/employee-registry-api/internal/middleware"
	"github.com/employee-registry-api/internal/service"
	"github.com/employee-registry-api/internal/validation"
)

// EmployeeHandler обрабатывает запросы к /rest/api/employee
type EmployeeHandler struct {
	empService service.EmployeeService
	logger     *slog.Logger
}

func NewEmployeeHandler(empService service.EmployeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		empService: empService,
		logger:     logger,
	}
}

// Get - GET /employee?id=
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	var c validation.Collector
	raw, present := queryParam(r, "id")
	id, _ := c.ID("id", raw, present)
	if !c.Empty() {
		h.respondInvalid(w, "get", c.Errors())
		return
	}

	res, err := h.empService.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, "get", err)
		return
	}

	if emp, ok := res.First(); ok {
		w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(emp.Version, 10)))
	}
	h.respondResult(w, "get", res)
}

// Update - PUT /employee
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondBadBody(w, "modify")
		return
	}

	var c validation.Collector
	id, idOK := c.ID("id", req.ID.String(), true)
	c.Struct(&req)
	supervisorID, _ := c.OptionalID("supervisor", req.Supervisor.String())
	version := h.parseVersion(&c, req.Version.String(), r.Header.Get("If-Match"))
	subordinates := validation.LenientIDSet(req.Subordinates.String())
	if idOK {
		c.Relations(id, supervisorID, subordinates)
	}

	var created *time.Time
	if !validation.IsBlank(req.Created) {
		if t, err := dto.ParseTime(req.Created); err == nil {
			created = &t
		}
	}

	if !c.Empty() {
		h.respondInvalid(w, "modify", c.Errors())
		return
	}

	res, err := h.empService.Modify(r.Context(), service.ModifyEmployeeInput{
		ID:           id,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Position:     req.Position,
		SupervisorID: supervisorID,
		Subordinates: subordinates,
		Created:      created,
		Version:      version,
	})
	if err != nil {
		h.handleServiceError(w, r, "modify", err)
		return
	}

	h.respondResult(w, "modify", res)
}

// Create - POST /employee
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondBadBody(w, "add")
		return
	}

	var c validation.Collector
	c.Struct(&req)
	supervisorID, _ := c.OptionalID("supervisor", req.Supervisor.String())
	if !c.Empty() {
		h.respondInvalid(w, "add", c.Errors())
		return
	}

	res, err := h.empService.Add(r.Context(), service.AddEmployeeInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Position:     req.Position,
		SupervisorID: supervisorID,
	})
	if err != nil {
		h.handleServiceError(w, r, "add", err)
		return
	}

	emp, ok := res.First()
	if !ok {
		h.handleServiceError(w, r, "add", domain.ErrEmployeeNotFound)
		return
	}

	metrics.RecordOperation("add", "success")
	h.respondJSON(w, http.StatusOK, dto.CreatedResponse{ID: emp.ID})
}

// Delete - DELETE /employee?id=
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var c validation.Collector
	raw, present := queryParam(r, "id")
	id, _ := c.ID("id", raw, present)
	if !c.Empty() {
		h.respondInvalid(w, "delete", c.Errors())
		return
	}

	if err := h.empService.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, "delete", err)
		return
	}

	metrics.RecordOperation("delete", "success")
	h.respondJSON(w, http.StatusOK, dto.ResultResponse{
		Result: fmt.Sprintf("User with id '%d' was deleted", id),
	})
}

// List - GET /employee/list?ids=
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	var c validation.Collector
	raw, present := queryParam(r, "ids")
	ids, _ := c.IDSet("ids", raw, present)
	if !c.Empty() {
		h.respondInvalid(w, "list", c.Errors())
		return
	}

	res, err := h.empService.List(r.Context(), ids)
	if err != nil {
		h.handleServiceError(w, r, "list", err)
		return
	}

	h.respondResult(w, "list", res)
}

// Page - GET /employee/page?p=&lim=
func (h *EmployeeHandler) Page(w http.ResponseWriter, r *http.Request) {
	var c validation.Collector
	pRaw, pPresent := queryParam(r, "p")
	limRaw, limPresent := queryParam(r, "lim")
	page, limit, _ := c.Page("p", pRaw, pPresent, "lim", limRaw, limPresent)
	if !c.Empty() {
		h.respondInvalid(w, "page", c.Errors())
		return
	}

	res, err := h.empService.Page(r.Context(), page, limit)
	if err != nil {
		h.handleServiceError(w, r, "page", err)
		return
	}

	h.respondResult(w, "page", res)
}

// Total - GET /employee/total; любая ошибка отдаётся как 404
func (h *EmployeeHandler) Total(w http.ResponseWriter, r *http.Request) {
	total, err := h.empService.Total(r.Context())
	if err != nil {
		h.logger.Error("failed to count employees",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.Any("error", err),
		)
		metrics.RecordOperation("total", "failed")
		h.respondErrors(w, http.StatusNotFound, []string{"NOT_FOUND: total is not available"})
		return
	}

	metrics.RecordOperation("total", "success")
	h.respondJSON(w, http.StatusOK, dto.TotalResponse{Total: total})
}

// Supervisors - GET /employee/supervisors?id=
func (h *EmployeeHandler) Supervisors(w http.ResponseWriter, r *http.Request) {
	var c validation.Collector
	raw, present := queryParam(r, "id")
	id, _ := c.ID("id", raw, present)
	if !c.Empty() {
		h.respondInvalid(w, "supervisors", c.Errors())
		return
	}

	res, err := h.empService.PossibleSupervisors(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, "supervisors", err)
		return
	}

	h.respondResult(w, "supervisors", res)
}

// Subordinates - GET /employee/subordinates?id=
func (h *EmployeeHandler) Subordinates(w http.ResponseWriter, r *http.Request) {
	var c validation.Collector
	raw, present := queryParam(r, "id")
	id, _ := c.ID("id", raw, present)
	if !c.Empty() {
		h.respondInvalid(w, "subordinates", c.Errors())
		return
	}

	res, err := h.empService.Subordinates(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, "subordinates", err)
		return
	}

	h.respondResult(w, "subordinates", res)
}

// Health - GET /health
func (h *EmployeeHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.empService.Ready(r.Context()); err != nil {
		h.logger.Warn("store is not ready", slog.Any("error", err))
		h.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseVersion берёт версию из тела, а если её нет - из заголовка If-Match
func (h *EmployeeHandler) parseVersion(c *validation.Collector, body, ifMatch string) *int64 {
	if !validation.IsBlank(body) {
		version, _ := c.OptionalID("version", body)
		return version
	}

	ifMatch = strings.TrimPrefix(strings.TrimSpace(ifMatch), "W/")
	version, _ := c.OptionalID("If-Match", strings.Trim(ifMatch, `"`))
	return version
}

func queryParam(r *http.Request, name string) (string, bool) {
	q := r.URL.Query()
	return q.Get(name), q.Has(name)
}

func (h *EmployeeHandler) toEmployeeResponses(res *domain.Result) []dto.EmployeeResponse {
	out := make([]dto.EmployeeResponse, 0, len(res.Employees))
	for i := range res.Employees {
		emp := &res.Employees[i]
		sup, _ := res.SupervisorOf(emp)
		out = append(out, dto.NewEmployeeResponse(emp, sup))
	}
	return out
}

func (h *EmployeeHandler) handleServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		status int
		code   string
	)

	switch {
	case errors.Is(err, domain.ErrEmployeeNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrNoChanges):
		status, code = http.StatusNotFound, "NO_CHANGES"
	case errors.Is(err, domain.ErrStaleWrite):
		status, code = http.StatusConflict, "STALE_WRITE"
	case errors.Is(err, domain.ErrSelfSupervision):
		status, code = http.StatusPreconditionFailed, string(validation.CodeSupervisorIsEmployee)
	case errors.Is(err, domain.ErrEmployeeInSubordinates):
		status, code = http.StatusPreconditionFailed, string(validation.CodeEmployeeInSubs)
	case errors.Is(err, domain.ErrSupervisorInSubordinates):
		status, code = http.StatusPreconditionFailed, string(validation.CodeSupervisorInSubs)
	case errors.Is(err, domain.ErrStoreUnavailable):
		h.logger.Error("store unavailable",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("operation", op),
			slog.Any("error", err),
		)
		status, code = http.StatusServiceUnavailable, "STORE_UNAVAILABLE"
	default:
		h.logger.Error("internal error",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("operation", op),
			slog.Any("error", err),
		)
		metrics.RecordOperation(op, "internal")
		h.respondErrors(w, http.StatusInternalServerError, []string{"INTERNAL: internal server error"})
		return
	}

	metrics.RecordOperation(op, strings.ToLower(code))
	h.respondErrors(w, status, []string{fmt.Sprintf("%s: %s", code, err.Error())})
}

func (h *EmployeeHandler) respondResult(w http.ResponseWriter, op string, res *domain.Result) {
	metrics.RecordOperation(op, "success")
	h.respondJSON(w, http.StatusOK, dto.ResultResponse{Result: h.toEmployeeResponses(res)})
}

func (h *EmployeeHandler) respondInvalid(w http.ResponseWriter, op string, errs validation.Errors) {
	metrics.RecordOperation(op, "invalid")
	h.respondErrors(w, http.StatusPreconditionFailed, errs.Messages())
}

func (h *EmployeeHandler) respondBadBody(w http.ResponseWriter, op string) {
	var c validation.Collector
	c.Add(validation.InvalidParameter, validation.CodeBadBody, "", "")
	h.respondInvalid(w, op, c.Errors())
}

func (h *EmployeeHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *EmployeeHandler) respondErrors(w http.ResponseWriter, status int, messages []string) {
	h.respondJSON(w, status, dto.ErrorResponse{Errors: messages})
}
