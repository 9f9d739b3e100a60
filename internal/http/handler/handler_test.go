package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"empapi/internal/model"
	"empapi/internal/service"
	serviceMocks "empapi/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := newApp()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		var body errorPayload
		decodeBody(t, resp, &body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListEmployees(t *testing.T) {
	mockSvc := new(serviceMocks.MockEmployeeService)
	app := newApp()
	app.Get("/employee/", ListEmployees(mockSvc))

	t.Run("returns all in order", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]model.Employee{
			{ID: 1, Name: "Employee 1", Address: "Address 1", Salary: "1000"},
			{ID: 2, Name: "Employee 2", Address: "Address 2", Salary: "2000"},
		}, nil).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/employee/", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result []model.Employee
		decodeBody(t, resp, &result)
		require.Len(t, result, 2)
		assert.Equal(t, model.Employee{ID: 1, Name: "Employee 1", Address: "Address 1", Salary: "1000"}, result[0])
		assert.Equal(t, model.Employee{ID: 2, Name: "Employee 2", Address: "Address 2", Salary: "2000"}, result[1])
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty store", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]model.Employee{}, nil).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/employee/", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, "[]", readBody(t, resp))
	})

	t.Run("store failure is unhandled", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return(nil, errors.New("list employees: db fail")).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/employee/", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, fiber.MIMETextPlainCharsetUTF8, resp.Header.Get(fiber.HeaderContentType))
		assert.Equal(t, "An error occurred: list employees: db fail", readBody(t, resp))
	})
}

func TestGetEmployee(t *testing.T) {
	mockSvc := new(serviceMocks.MockEmployeeService)
	app := newApp()
	app.Get("/employee/:id", GetEmployee(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(1)).
			Return(&model.Employee{ID: 1, Name: "Employee 1", Address: "Address 1", Salary: "1000"}, nil).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/employee/1", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"id":1,"name":"Employee 1","address":"Address 1","salary":"1000"}`, readBody(t, resp))
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found has empty body", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(99)).Return(nil, service.ErrNotFound).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/employee/99", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Empty(t, readBody(t, resp))
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/employee/abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		decodeBody(t, resp, &res)
		assert.Equal(t, "BAD_REQUEST", res.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(3)).Return(nil, errors.New("db error")).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/employee/3", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "db error")
	})
}

func TestCreateEmployee(t *testing.T) {
	mockSvc := new(serviceMocks.MockEmployeeService)
	app := newApp()
	app.Post("/employee/", CreateEmployee(mockSvc))

	t.Run("success", func(t *testing.T) {
		in := &model.Employee{ID: 1, Name: "Employee 1", Address: "Address 1", Salary: "1000"}
		mockSvc.On("Create", mock.Anything, in).
			Return(&model.Employee{ID: 1, Name: "Employee 1", Address: "Address 1", Salary: "1000"}, nil).Once()

		body, err := json.Marshal(in)
		require.NoError(t, err)
		resp := doRequest(t, app, jsonRequest(http.MethodPost, "/employee/", string(body)))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result model.Employee
		decodeBody(t, resp, &result)
		assert.Equal(t, *in, result)
		mockSvc.AssertExpectations(t)
	})

	t.Run("persistence failure", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("save employee: db fail")).Once()

		resp := doRequest(t, app, jsonRequest(http.MethodPost, "/employee/", `{"name":"x"}`))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		decodeBody(t, resp, &res)
		assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
		assert.Equal(t, "internal server error", res.Error.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("numeric salary is kept as text", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, &model.Employee{Name: "Employee 2", Address: "Address 2", Salary: "2000"}).
			Return(&model.Employee{ID: 2, Name: "Employee 2", Address: "Address 2", Salary: "2000"}, nil).Once()

		resp := doRequest(t, app, jsonRequest(http.MethodPost, "/employee/", `{"name":"Employee 2","address":"Address 2","salary":2000}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result model.Employee
		decodeBody(t, resp, &result)
		assert.Equal(t, "2000", result.Salary)
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		freshSvc := new(serviceMocks.MockEmployeeService)
		freshApp := newApp()
		freshApp.Post("/employee/", CreateEmployee(freshSvc))

		resp := doRequest(t, freshApp, jsonRequest(http.MethodPost, "/employee/", `{"name":`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		decodeBody(t, resp, &res)
		assert.Equal(t, "BAD_REQUEST", res.Error.Code)
		freshSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUpdateEmployee(t *testing.T) {
	mockSvc := new(serviceMocks.MockEmployeeService)
	app := newApp()
	app.Put("/employee/:id", UpdateEmployee(mockSvc))

	payload := `{"name":"Employee 1 Updated","address":"Address 1 Updated","salary":"1000"}`

	t.Run("success keeps id", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, int64(1), &model.Employee{Name: "Employee 1 Updated", Address: "Address 1 Updated", Salary: "1000"}).
			Return(&model.Employee{ID: 1, Name: "Employee 1 Updated", Address: "Address 1 Updated", Salary: "1000"}, nil).Once()

		resp := doRequest(t, app, jsonRequest(http.MethodPut, "/employee/1", payload))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result model.Employee
		decodeBody(t, resp, &result)
		assert.Equal(t, int64(1), result.ID)
		assert.Equal(t, "Employee 1 Updated", result.Name)
		assert.Equal(t, "Address 1 Updated", result.Address)
		assert.Equal(t, "1000", result.Salary)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found has empty body", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, int64(2), mock.Anything).Return(nil, service.ErrNotFound).Once()

		resp := doRequest(t, app, jsonRequest(http.MethodPut, "/employee/2", payload))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Empty(t, readBody(t, resp))
	})

	t.Run("persistence failure", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, int64(3), mock.Anything).Return(nil, errors.New("db fail")).Once()

		resp := doRequest(t, app, jsonRequest(http.MethodPut, "/employee/3", payload))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		decodeBody(t, resp, &res)
		assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp := doRequest(t, app, jsonRequest(http.MethodPut, "/employee/1.5", payload))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteEmployee(t *testing.T) {
	mockSvc := new(serviceMocks.MockEmployeeService)
	app := newApp()
	app.Delete("/employee/:id", DeleteEmployee(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(1)).Return(nil).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodDelete, "/employee/1", nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("absent id still 204", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(404)).Return(nil).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodDelete, "/employee/404", nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(5)).Return(errors.New("delete error")).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodDelete, "/employee/5", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		decodeBody(t, resp, &res)
		assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestExportWorkbook(t *testing.T) {
	mockSvc := new(serviceMocks.MockExportService)
	app := newApp()
	app.Get("/employee/export", ExportWorkbook(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("WriteWorkbook", mock.Anything, mock.Anything).Return(func(w io.Writer) int {
			w.Write([]byte("PK-xlsx"))
			return 2
		}, nil).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/employee/export", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, service.XLSXContentType, resp.Header.Get(fiber.HeaderContentType))
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "employees.xlsx")
		assert.Equal(t, "2", resp.Header.Get("X-Export-Rows"))
		assert.Equal(t, "PK-xlsx", readBody(t, resp))
	})

	t.Run("failure", func(t *testing.T) {
		mockSvc.On("WriteWorkbook", mock.Anything, mock.Anything).Return(0, errors.New("render fail")).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/employee/export", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		decodeBody(t, resp, &res)
		assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
	})
}

func TestArchiveWorkbook(t *testing.T) {
	mockSvc := new(serviceMocks.MockExportService)
	app := newApp()
	app.Post("/employee/export", ArchiveWorkbook(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Archive", mock.Anything).
			Return(&service.ExportResult{Key: "exports/employees-1.xlsx", URL: "https://signed", Size: 10, Rows: 2}, nil).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodPost, "/employee/export", nil))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var res service.ExportResult
		decodeBody(t, resp, &res)
		assert.Equal(t, "https://signed", res.URL)
		assert.Equal(t, 2, res.Rows)
	})

	t.Run("storage disabled", func(t *testing.T) {
		mockSvc.On("Archive", mock.Anything).Return(nil, service.ErrStorageDisabled).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodPost, "/employee/export", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		var res errorPayload
		decodeBody(t, resp, &res)
		assert.Equal(t, "STORAGE_DISABLED", res.Error.Code)
	})

	t.Run("failure", func(t *testing.T) {
		mockSvc.On("Archive", mock.Anything).Return(nil, errors.New("upload to storage: fail")).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodPost, "/employee/export", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestErrorHandler_RecoveredPanic(t *testing.T) {
	app := newApp()
	app.Use(recover.New())
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "An error occurred: boom", readBody(t, resp))
}

func TestRouting(t *testing.T) {
	app := newApp()

	mockSvc := new(serviceMocks.MockEmployeeService)
	mockExport := new(serviceMocks.MockExportService)
	RegisterRoutes(app, Deps{Employees: mockSvc, Exports: mockExport, Gatherer: prometheus.NewRegistry()})

	t.Run("not found route", func(t *testing.T) {
		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		decodeBody(t, resp, &res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp := doRequest(t, app, httptest.NewRequest(http.MethodPost, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		decodeBody(t, resp, &res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("list without trailing slash", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]model.Employee{}, nil).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/employee", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("export is not parsed as an id", func(t *testing.T) {
		mockExport.On("WriteWorkbook", mock.Anything, mock.Anything).Return(0, nil).Once()

		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/employee/export", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockExport.AssertExpectations(t)
		mockSvc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("swagger doc", func(t *testing.T) {
		resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, "/employee/{id}")
		assert.True(t, json.Valid(bytes.TrimSpace([]byte(body))))
	})
}
