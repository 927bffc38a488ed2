package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

var testRegistry = NewRegistry("TEST")

var (
	codeMissing  = testRegistry.Register("MISSING", TypeNotFound, http.StatusNotFound, "Thing not found")
	codeConflict = testRegistry.Register("DUP", TypeConflict, 0, "Duplicate thing")
)

func TestRegistry_PrefixesCodes(t *testing.T) {
	if codeMissing.Code != "TEST_MISSING" {
		t.Fatalf("code = %q, want TEST_MISSING", codeMissing.Code)
	}
	if codeConflict.HTTPStatus != http.StatusConflict {
		t.Errorf("default status = %d, want %d", codeConflict.HTTPStatus, http.StatusConflict)
	}
	if len(testRegistry.Codes()) != 2 {
		t.Errorf("registered %d codes, want 2", len(testRegistry.Codes()))
	}
}

func TestWrap_PassesTypedErrorsThrough(t *testing.T) {
	domain := testRegistry.New(codeMissing)
	wrapped := Wrap(fmt.Errorf("repo: %w", domain), "failed to load", TypeInternal)

	if wrapped != domain {
		t.Fatalf("Wrap replaced a typed error: %v", wrapped)
	}
	if !IsCode(wrapped, codeMissing) {
		t.Error("IsCode lost the registered code")
	}
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := Wrap(cause, "failed to load", TypeInternal)

	if wrapped.Type != TypeInternal || wrapped.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected wrap: %+v", wrapped)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("cause not reachable through Unwrap")
	}
	resp := wrapped.ToHTTPResponse()
	if resp["error"] != "failed to load" {
		t.Errorf("response leaked cause: %v", resp["error"])
	}
	if resp["success"] != false {
		t.Error("response must carry success=false")
	}
}

func TestWrap_Nil(t *testing.T) {
	if Wrap(nil, "x", TypeInternal) != nil {
		t.Error("Wrap(nil) should be nil")
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	a := testRegistry.New(codeConflict).WithDetail("id", "1")
	b := testRegistry.New(codeConflict)
	if !errors.Is(a, b) {
		t.Error("errors with the same code should match")
	}
	if errors.Is(a, testRegistry.New(codeMissing)) {
		t.Error("errors with different codes should not match")
	}
	if a.Details["id"] != "1" {
		t.Error("detail not recorded")
	}
}
