package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicalunion/medical-union-api/internal/api/handler"
	"github.com/medicalunion/medical-union-api/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, handler.Response) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var res handler.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return rec.Code, res
}

func TestErrorHandler_DomainKinds(t *testing.T) {
	cases := []struct {
		kind       domain.ErrorKind
		wantStatus int
		wantCode   int
	}{
		{domain.KindDuplicateUsername, http.StatusBadRequest, domain.CodeDuplicateUsername},
		{domain.KindWeakPassword, http.StatusBadRequest, domain.CodeWeakPassword},
		{domain.KindInvalidInput, http.StatusBadRequest, domain.CodeInvalidInput},
		{domain.KindInvalidCredentials, http.StatusUnauthorized, domain.CodeInvalidCredentials},
		{domain.KindUnauthorized, http.StatusUnauthorized, domain.CodeUnauthorized},
		{domain.KindUserNotFound, http.StatusUnauthorized, domain.CodeUserNotFound},
		{domain.KindInvalidPassword, http.StatusUnauthorized, domain.CodeInvalidPassword},
	}
	for _, tc := range cases {
		status, res := renderError(t, domain.NewError(tc.kind, "detail"))
		if status != tc.wantStatus {
			t.Fatalf("%v: expected status %d, got %d", tc.kind, tc.wantStatus, status)
		}
		if res.Code != tc.wantCode {
			t.Fatalf("%v: expected code %d, got %d", tc.kind, tc.wantCode, res.Code)
		}
		if res.Message != "detail" {
			t.Fatalf("%v: expected message to pass through, got %q", tc.kind, res.Message)
		}
	}
}

func TestErrorHandler_InfrastructureHidesDetail(t *testing.T) {
	status, res := renderError(t, domain.NewError(domain.KindInfrastructure, "pq: connection refused on 10.0.0.3"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if res.Code != domain.CodeInfrastructure {
		t.Fatalf("expected code %d, got %d", domain.CodeInfrastructure, res.Code)
	}
	if res.Message != "internal error" {
		t.Fatalf("infrastructure detail leaked to client: %q", res.Message)
	}
}

func TestErrorHandler_UnknownErrorFailsClosed(t *testing.T) {
	status, res := renderError(t, errors.New("driver: bad connection"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if res.Code != domain.CodeInfrastructure {
		t.Fatalf("expected code %d, got %d", domain.CodeInfrastructure, res.Code)
	}
	if res.Message != "internal error" {
		t.Fatalf("raw error text leaked: %q", res.Message)
	}
}

func TestErrorHandler_EchoErrors(t *testing.T) {
	status, res := renderError(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if res.Code != domain.CodeInvalidInput {
		t.Fatalf("expected code %d, got %d", domain.CodeInvalidInput, res.Code)
	}

	status, res = renderError(t, echo.NewHTTPError(http.StatusForbidden, "forbidden"))
	if status != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", status)
	}
	if res.Code != domain.CodeUnauthorized {
		t.Fatalf("expected code %d, got %d", domain.CodeUnauthorized, res.Code)
	}
}
