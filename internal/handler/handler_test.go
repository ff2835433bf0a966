package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/employee-registry-api/internal/domain"
	"github.com/employee-registry-api/internal/dto"
	"github.com/employee-registry-api/internal/handler"
	"github.com/employee-registry-api/internal/service"
)

type mockEmployeeRepo struct {
	employees map[int64]domain.Employee
	nextID    int64
	pingErr   error
	countErr  error
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{
		employees: make(map[int64]domain.Employee),
		nextID:    1,
	}
}

func (m *mockEmployeeRepo) Create(ctx context.Context, emp *domain.Employee) error {
	emp.ID = m.nextID
	m.nextID++
	m.employees[emp.ID] = *emp
	return nil
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	if emp, ok := m.employees[id]; ok {
		return &emp, nil
	}
	return nil, domain.ErrEmployeeNotFound
}

func (m *mockEmployeeRepo) GetByIDs(ctx context.Context, ids domain.IDSet) ([]domain.Employee, error) {
	return m.sorted(func(e domain.Employee) bool { return ids.Contains(e.ID) }), nil
}

func (m *mockEmployeeRepo) GetPage(ctx context.Context, offset, limit int64) ([]domain.Employee, error) {
	all := m.sorted(func(domain.Employee) bool { return true })
	if offset >= int64(len(all)) {
		return []domain.Employee{}, nil
	}
	return all[offset:min(offset+limit, int64(len(all)))], nil
}

func (m *mockEmployeeRepo) GetAll(ctx context.Context) ([]domain.Employee, error) {
	return m.sorted(func(domain.Employee) bool { return true }), nil
}

func (m *mockEmployeeRepo) GetBySupervisor(ctx context.Context, supervisorID int64) ([]domain.Employee, error) {
	return m.sorted(func(e domain.Employee) bool { return e.SupervisedBy(supervisorID) }), nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, emp *domain.Employee, expectedVersion int64) error {
	stored, ok := m.employees[emp.ID]
	if !ok || stored.Version != expectedVersion {
		return domain.ErrStaleWrite
	}
	m.employees[emp.ID] = *emp
	return nil
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.employees[id]; !ok {
		return domain.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	return nil
}

func (m *mockEmployeeRepo) Count(ctx context.Context) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.employees)), nil
}

func (m *mockEmployeeRepo) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *mockEmployeeRepo) sorted(keep func(domain.Employee) bool) []domain.Employee {
	var result []domain.Employee
	for _, emp := range m.employees {
		if keep(emp) {
			result = append(result, emp)
		}
	}
	slices.SortFunc(result, func(a, b domain.Employee) int { return int(a.ID - b.ID) })
	return result
}

type noopTx struct{}

func (noopTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var testNow = time.Date(2024, 5, 23, 12, 32, 1, 0, time.UTC)

type testServer struct {
	server  *httptest.Server
	empRepo *mockEmployeeRepo
}

func setupTestServer(_ *testing.T) *testServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	empRepo := newMockEmployeeRepo()
	empService := service.NewEmployeeService(empRepo, noopTx{}, service.WithClock(func() time.Time { return testNow }))

	empHandler := handler.NewEmployeeHandler(empService, logger)
	router := handler.NewRouter(empHandler, logger, []string{"https://localhost:3000"})

	return &testServer{
		server:  httptest.NewServer(router.Setup()),
		empRepo: empRepo,
	}
}

func (ts *testServer) Close() {
	ts.server.Close()
}

func (ts *testServer) url(path string) string {
	return ts.server.URL + handler.BasePath + path
}

func sendJSON(method, url string, body any, headers map[string]string) (*http.Response, error) {
	data, _ := json.Marshal(body)
	req, err := http.NewRequest(method, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return http.DefaultClient.Do(req)
}

func deleteRequest(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return nil, err
	}
	return http.DefaultClient.Do(req)
}

func mustCreate(t *testing.T, ts *testServer, body map[string]any) int64 {
	t.Helper()
	resp, err := sendJSON(http.MethodPost, ts.url(""), body, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var created dto.CreatedResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return created.ID
}

type resultBody struct {
	Result []dto.EmployeeResponse `json:"result"`
}

func decodeResult(t *testing.T, resp *http.Response) []dto.EmployeeResponse {
	t.Helper()
	var body resultBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return body.Result
}

func decodeErrors(t *testing.T, resp *http.Response) []string {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return body.Errors
}

func containsCode(errs []string, code string) bool {
	for _, e := range errs {
		if strings.HasPrefix(e, code+":") {
			return true
		}
	}
	return false
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.server.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestHealthCheck_StoreUnavailable(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()
	ts.empRepo.pingErr = domain.ErrStoreUnavailable

	resp, err := http.Get(ts.server.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected %d, got %d", http.StatusServiceUnavailable, resp.StatusCode)
	}
}

func TestCreateThenGet_FullName(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	id := mustCreate(t, ts, map[string]any{"firstName": "John", "lastName": "Doe"})

	resp, err := http.Get(ts.url("?id=" + strconv.FormatInt(id, 10)))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if etag := resp.Header.Get("ETag"); etag != `"1"` {
		t.Errorf("expected ETag \"1\", got %s", etag)
	}

	result := decodeResult(t, resp)
	if len(result) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(result))
	}
	want := "John Doe (" + strconv.FormatInt(id, 10) + ")"
	if result[0].FullName != want {
		t.Errorf("expected fullName '%s', got '%s'", want, result[0].FullName)
	}
	if result[0].Created != "2024-05-23 12:32:01" {
		t.Errorf("unexpected created '%s'", result[0].Created)
	}
	if result[0].Supervisor != "" || result[0].SupervisorFullName != "" {
		t.Errorf("expected empty supervisor, got '%s' / '%s'", result[0].Supervisor, result[0].SupervisorFullName)
	}
}

func TestCreate_WithSupervisor(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	bossID := mustCreate(t, ts, map[string]any{"firstName": "Mister", "lastName": "Bin"})
	id := mustCreate(t, ts, map[string]any{"firstName": "Jane", "lastName": "Smith", "supervisor": strconv.FormatInt(bossID, 10)})

	resp, err := http.Get(ts.url("?id=" + strconv.FormatInt(id, 10)))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	result := decodeResult(t, resp)
	if result[0].SupervisorFullName != "Mister Bin (1)" {
		t.Errorf("expected supervisorFullName 'Mister Bin (1)', got '%s'", result[0].SupervisorFullName)
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := sendJSON(http.MethodPost, ts.url(""), map[string]any{"firstName": "  ", "supervisor": "x1"}, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPreconditionFailed {
		t.Fatalf("expected %d, got %d", http.StatusPreconditionFailed, resp.StatusCode)
	}

	errs := decodeErrors(t, resp)
	if len(errs) != 3 {
		t.Errorf("expected 3 errors, got %v", errs)
	}
	if !containsCode(errs, "NO_PARAM_VALUE") || !containsCode(errs, "BAD_PARAM") {
		t.Errorf("unexpected errors %v", errs)
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := http.Post(ts.url(""), "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPreconditionFailed {
		t.Errorf("expected %d, got %d", http.StatusPreconditionFailed, resp.StatusCode)
	}
	if errs := decodeErrors(t, resp); !containsCode(errs, "BAD_BODY") {
		t.Errorf("expected BAD_BODY, got %v", errs)
	}
}

func TestGet_InvalidID(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	tests := []struct {
		name  string
		query string
		code  string
	}{
		{"not digits", "?id=abc", "BAD_PARAM"},
		{"blank", "?id=%20", "NO_PARAM_VALUE"},
		{"absent", "", "NO_PARAM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.url(tt.query))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusPreconditionFailed {
				t.Errorf("expected %d, got %d", http.StatusPreconditionFailed, resp.StatusCode)
			}
			errs := decodeErrors(t, resp)
			if !containsCode(errs, tt.code) || !strings.Contains(errs[0], `"id"`) {
				t.Errorf("expected %s citing id, got %v", tt.code, errs)
			}
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.url("?id=42"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestUpdate_Success(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	id := mustCreate(t, ts, map[string]any{"firstName": "John", "lastName": "Doe"})
	mustCreate(t, ts, map[string]any{"firstName": "Jane", "lastName": "Roe"})

	resp, err := sendJSON(http.MethodPut, ts.url(""), map[string]any{
		"id":           id,
		"firstName":    "John",
		"lastName":     "Doe",
		"position":     "lead",
		"supervisor":   "2",
		"subordinates": "3,4,5",
		"created":      "2024-05-23 12:32:01",
	}, map[string]string{"If-Match": `"1"`})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected %d, got %d: %v", http.StatusOK, resp.StatusCode, decodeErrors(t, resp))
	}

	result := decodeResult(t, resp)
	if result[0].Position != "lead" || result[0].Version != 2 {
		t.Errorf("unexpected result %+v", result[0])
	}
	if !slices.Equal(result[0].Subordinates, []int64{3, 4, 5}) {
		t.Errorf("unexpected subordinates %v", result[0].Subordinates)
	}
	if result[0].SupervisorFullName != "Jane Roe (2)" {
		t.Errorf("unexpected supervisorFullName '%s'", result[0].SupervisorFullName)
	}
}

func TestUpdate_OwnIDInSubordinates(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	id := mustCreate(t, ts, map[string]any{"firstName": "John", "lastName": "Doe"})

	resp, err := sendJSON(http.MethodPut, ts.url(""), map[string]any{
		"id":           strconv.FormatInt(id, 10),
		"firstName":    "Johnny",
		"lastName":     "Doe",
		"subordinates": []int64{id, 7},
	}, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPreconditionFailed {
		t.Errorf("expected %d, got %d", http.StatusPreconditionFailed, resp.StatusCode)
	}
	if errs := decodeErrors(t, resp); !containsCode(errs, "EMPLOYEE_ID_IN_SUBS") {
		t.Errorf("expected EMPLOYEE_ID_IN_SUBS, got %v", errs)
	}

	stored := ts.empRepo.employees[id]
	if stored.FirstName != "John" || stored.Version != 1 {
		t.Errorf("employee must not be modified, got %+v", stored)
	}
}

func TestUpdate_RelationalErrorsAccumulate(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := sendJSON(http.MethodPut, ts.url(""), map[string]any{
		"id":           "5",
		"firstName":    "",
		"lastName":     "Doe",
		"supervisor":   "5",
		"subordinates": "5",
	}, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	errs := decodeErrors(t, resp)
	for _, code := range []string{"NO_PARAM_VALUE", "SUPERVISOR_ID_SAME_WITH_EMPLOYEE_ID", "EMPLOYEE_ID_IN_SUBS", "SUPERVISOR_ID_IN_SUBS"} {
		if !containsCode(errs, code) {
			t.Errorf("expected %s in %v", code, errs)
		}
	}
}

func TestUpdate_StaleWrite(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	id := mustCreate(t, ts, map[string]any{"firstName": "John", "lastName": "Doe"})

	tests := []struct {
		name    string
		body    map[string]any
		headers map[string]string
	}{
		{"created mismatch", map[string]any{"id": id, "firstName": "Jack", "lastName": "Doe", "created": "2020-01-01 00:00:00"}, nil},
		{"version mismatch", map[string]any{"id": id, "firstName": "Jack", "lastName": "Doe", "version": 7}, nil},
		{"if-match mismatch", map[string]any{"id": id, "firstName": "Jack", "lastName": "Doe"}, map[string]string{"If-Match": `"3"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := sendJSON(http.MethodPut, ts.url(""), tt.body, tt.headers)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusConflict {
				t.Errorf("expected %d, got %d", http.StatusConflict, resp.StatusCode)
			}
			if errs := decodeErrors(t, resp); !containsCode(errs, "STALE_WRITE") {
				t.Errorf("expected STALE_WRITE, got %v", errs)
			}
		})
	}

	if ts.empRepo.employees[id].FirstName != "John" {
		t.Errorf("employee must not be modified")
	}
}

func TestUpdate_NoChanges(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	id := mustCreate(t, ts, map[string]any{"firstName": "John", "lastName": "Doe"})

	resp, err := sendJSON(http.MethodPut, ts.url(""), map[string]any{"id": id, "firstName": "John", "lastName": "Doe"}, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestDelete(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	id := mustCreate(t, ts, map[string]any{"firstName": "John", "lastName": "Doe"})

	resp, err := deleteRequest(ts.url("?id=" + strconv.FormatInt(id, 10)))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Result string `json:"result"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Result != "User with id '1' was deleted" {
		t.Errorf("unexpected result '%s'", body.Result)
	}
}

func TestDelete_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := deleteRequest(ts.url("?id=999"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestList(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	mustCreate(t, ts, map[string]any{"firstName": "A", "lastName": "A"})
	mustCreate(t, ts, map[string]any{"firstName": "B", "lastName": "B"})
	mustCreate(t, ts, map[string]any{"firstName": "C", "lastName": "C"})

	resp, err := http.Get(ts.url("/list?ids=3,1,99"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	result := decodeResult(t, resp)
	if len(result) != 2 || result[0].ID != "1" || result[1].ID != "3" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestList_BadShape(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.url("/list?ids=1,a"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPreconditionFailed {
		t.Errorf("expected %d, got %d", http.StatusPreconditionFailed, resp.StatusCode)
	}
}

func TestPage_Disjoint(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	for i := 0; i < 3; i++ {
		mustCreate(t, ts, map[string]any{"firstName": "F" + strconv.Itoa(i), "lastName": "L"})
	}

	get := func(p string) []dto.EmployeeResponse {
		resp, err := http.Get(ts.url("/page?lim=2&p=" + p))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		return decodeResult(t, resp)
	}

	page0, page1 := get("0"), get("1")
	if len(page0) != 2 || len(page1) != 1 {
		t.Fatalf("unexpected page sizes %d and %d", len(page0), len(page1))
	}
	if page0[0].ID != "1" || page0[1].ID != "2" || page1[0].ID != "3" {
		t.Errorf("pages are not disjoint and ordered: %+v %+v", page0, page1)
	}
}

func TestPage_MissingParams(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.url("/page?p=x"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPreconditionFailed {
		t.Errorf("expected %d, got %d", http.StatusPreconditionFailed, resp.StatusCode)
	}
	errs := decodeErrors(t, resp)
	if !containsCode(errs, "BAD_PARAM") || !containsCode(errs, "NO_PARAM") {
		t.Errorf("unexpected errors %v", errs)
	}
}

func TestTotal(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	mustCreate(t, ts, map[string]any{"firstName": "A", "lastName": "A"})

	resp, err := http.Get(ts.url("/total"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body dto.TotalResponse
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Total != 1 {
		t.Errorf("expected total 1, got %d", body.Total)
	}
}

func TestTotal_FailureIsNotFound(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()
	ts.empRepo.countErr = domain.ErrStoreUnavailable

	resp, err := http.Get(ts.url("/total"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestSupervisors_ExcludesSelfAndSubordinates(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	bossID := mustCreate(t, ts, map[string]any{"firstName": "Boss", "lastName": "B"})
	mustCreate(t, ts, map[string]any{"firstName": "Direct", "lastName": "D", "supervisor": bossID})
	mustCreate(t, ts, map[string]any{"firstName": "Other", "lastName": "O"})

	resp, err := http.Get(ts.url("/supervisors?id=" + strconv.FormatInt(bossID, 10)))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	result := decodeResult(t, resp)
	if len(result) != 1 || result[0].FirstName != "Other" {
		t.Errorf("unexpected candidates %+v", result)
	}
}

func TestSubordinates(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	bossID := mustCreate(t, ts, map[string]any{"firstName": "Boss", "lastName": "B"})
	mustCreate(t, ts, map[string]any{"firstName": "Direct", "lastName": "D", "supervisor": bossID})

	resp, err := http.Get(ts.url("/subordinates?id=" + strconv.FormatInt(bossID, 10)))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	result := decodeResult(t, resp)
	if len(result) != 1 || result[0].FirstName != "Direct" {
		t.Errorf("unexpected subordinates %+v", result)
	}
	if result[0].SupervisorFullName != "Boss B (1)" {
		t.Errorf("unexpected supervisorFullName '%s'", result[0].SupervisorFullName)
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.server.URL + "/nope")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %s", ct)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	mustCreate(t, ts, map[string]any{"firstName": "A", "lastName": "A"})

	resp, err := http.Get(ts.server.URL + "/metrics")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "employee_registry_employees_operations_total") {
		t.Errorf("expected operation counter in metrics output")
	}
}
