package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/matchdaylabs/teamstats/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestMapError_StatusCodes(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{usecase.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{usecase.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{usecase.ErrPaymentRequired, http.StatusPaymentRequired, "PAYMENT_REQUIRED"},
		{usecase.ErrForbidden, http.StatusForbidden, "PERMISSION_DENIED"},
		{usecase.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
		{usecase.ErrInvariant, http.StatusInternalServerError, "INTERNAL"},
		{errors.New("anything else"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		mapped := mapError(fmt.Errorf("%w: detail", tc.err))
		if mapped.HTTPStatus != tc.wantStatus {
			t.Errorf("%v: expected status %d, got %d", tc.err, tc.wantStatus, mapped.HTTPStatus)
		}
		if mapped.Status != tc.wantCode {
			t.Errorf("%v: expected code %s, got %s", tc.err, tc.wantCode, mapped.Status)
		}
	}
}

func TestWriteError_RedactsInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: team team-1 has no members", usecase.ErrInvariant))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "team-1") {
		t.Fatal("internal error detail must not leak to clients")
	}
}

func TestWriteError_PaymentRequired(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: team team-1", usecase.ErrPaymentRequired))

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected status 402, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "PAYMENT_REQUIRED" {
		t.Fatalf("expected PAYMENT_REQUIRED, got %v", errorObj["status"])
	}
}
