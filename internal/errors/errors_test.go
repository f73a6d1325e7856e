package errors

import (
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: "record not found",
	}

	expected := "NOT_FOUND: record not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewValidationFailed(t *testing.T) {
	err := NewValidationFailed("file_label", "file_label is required")

	if err.Code != ErrValidationFailed {
		t.Errorf("Code = %q, want %q", err.Code, ErrValidationFailed)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
	if err.Details["field"] != "file_label" {
		t.Errorf("Details[field] = %v, want %q", err.Details["field"], "file_label")
	}
}

func TestNewTooManyDocuments(t *testing.T) {
	err := NewTooManyDocuments(8, 11)

	if err.Code != ErrTooManyDocuments {
		t.Errorf("Code = %q, want %q", err.Code, ErrTooManyDocuments)
	}
	if err.Details["max_documents"] != 8 {
		t.Errorf("Details[max_documents] = %v, want 8", err.Details["max_documents"])
	}
	if err.Details["actual_documents"] != 11 {
		t.Errorf("Details[actual_documents] = %v, want 11", err.Details["actual_documents"])
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01ARZ3")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["id"] != "01ARZ3" {
		t.Errorf("Details[id] = %v, want %q", err.Details["id"], "01ARZ3")
	}
}

func TestNewConfirmationRequired(t *testing.T) {
	err := NewConfirmationRequired("delete", "01ARZ3")

	if err.Code != ErrConfirmationRequired {
		t.Errorf("Code = %q, want %q", err.Code, ErrConfirmationRequired)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["action"] != "delete" {
		t.Errorf("Details[action] = %v, want %q", err.Details["action"], "delete")
	}
}

func TestNewStoreUnavailable(t *testing.T) {
	err := NewStoreUnavailable(fmt.Errorf("database is locked"))

	if err.Code != ErrStoreUnavailable {
		t.Errorf("Code = %q, want %q", err.Code, ErrStoreUnavailable)
	}
	if err.Message != "database is locked" {
		t.Errorf("Message = %q, want %q", err.Message, "database is locked")
	}
}

func TestNewStoreUnavailable_NilError(t *testing.T) {
	err := NewStoreUnavailable(nil)

	if err.Message != "record store unavailable" {
		t.Errorf("Message = %q, want default", err.Message)
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("boom"))

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Message != "boom" {
		t.Errorf("Message = %q, want %q", err.Message, "boom")
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("x")

	if !Is(err, ErrNotFound) {
		t.Error("Is(err, ErrNotFound) = false, want true")
	}
	if Is(err, ErrInternal) {
		t.Error("Is(err, ErrInternal) = true, want false")
	}
	if Is(fmt.Errorf("plain"), ErrNotFound) {
		t.Error("Is(plain, ErrNotFound) = true, want false")
	}
}
