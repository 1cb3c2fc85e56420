package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/prissleague/internal/domain/match"
	"github.com/riskibarqy/prissleague/internal/usecase"
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

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_StatusTable(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		status string
	}{
		{name: "invalid input", err: fmt.Errorf("%w: bad", usecase.ErrInvalidInput), code: http.StatusBadRequest, status: "INVALID_ARGUMENT"},
		{name: "invalid roster", err: fmt.Errorf("%w: empty team", match.ErrInvalidRoster), code: http.StatusBadRequest, status: "INVALID_ARGUMENT"},
		{name: "forbidden", err: fmt.Errorf("%w: not admin", usecase.ErrForbidden), code: http.StatusForbidden, status: "PERMISSION_DENIED"},
		{name: "not found", err: usecase.ErrNotFound, code: http.StatusNotFound, status: "NOT_FOUND"},
		{name: "conflict", err: fmt.Errorf("%w: not pending", usecase.ErrConflict), code: http.StatusConflict, status: "ABORTED"},
		{name: "run in progress", err: usecase.ErrRunInProgress, code: http.StatusConflict, status: "ABORTED"},
		{name: "dependency", err: usecase.ErrDependencyUnavailable, code: http.StatusServiceUnavailable, status: "UNAVAILABLE"},
		{name: "unknown", err: fmt.Errorf("boom"), code: http.StatusInternalServerError, status: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(context.Background(), tt.err)
			if got.HTTPStatus != tt.code || got.Status != tt.status {
				t.Fatalf("mapError(%v)=%+v want code=%d status=%s", tt.err, got, tt.code, tt.status)
			}
		})
	}
}
