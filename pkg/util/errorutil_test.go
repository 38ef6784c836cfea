package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorPassesThroughTypedErrors(t *testing.T) {
	original := NewForbidden("nope")
	mapped := ToDomainError(original)
	if mapped.Code != "FORBIDDEN" || mapped.HTTPStatus != 403 || mapped.Message != "nope" {
		t.Errorf("got %+v", mapped)
	}

	wrapped := fmt.Errorf("outer: %w", original)
	if mapped := ToDomainError(wrapped); mapped.Code != "FORBIDDEN" {
		t.Errorf("wrapped typed error lost its code: %+v", mapped)
	}
}

func TestToDomainErrorMapsMissingRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	if mapped.Code != "NOT_FOUND" || mapped.HTTPStatus != 404 {
		t.Errorf("got %+v", mapped)
	}
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	mapped := ToDomainError(errors.New("disk on fire"))
	if mapped.Code != "INTERNAL_ERROR" || mapped.HTTPStatus != 500 {
		t.Errorf("got %+v", mapped)
	}
	if mapped.Message != "internal server error" {
		t.Errorf("internal detail leaked: %q", mapped.Message)
	}
}

func TestConstructorsCarryStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NewConflict("dup", nil), 409},
		{NewUnauthorized("no"), 401},
		{NewForbidden("no"), 403},
		{NewNotFound("Task", nil), 404},
		{NewValidationError("bad", nil), 400},
		{NewInternalError(nil), 500},
	}
	for _, tc := range cases {
		var de *DomainError
		if !errors.As(tc.err, &de) {
			t.Fatalf("%v is not a DomainError", tc.err)
		}
		if de.HTTPStatus != tc.status {
			t.Errorf("%s: status = %d, want %d", de.Code, de.HTTPStatus, tc.status)
		}
	}
}

func TestNotFoundMessageNamesResource(t *testing.T) {
	de := ToDomainError(NewNotFound("Task", nil))
	if de.Message != "Task not found" {
		t.Errorf("message = %q", de.Message)
	}
}
