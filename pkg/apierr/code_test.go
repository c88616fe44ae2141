package apierr

import (
	"errors"
	"net/http"
	"testing"
)

func TestCodeHTTPCode(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{OK, http.StatusOK},
		{Canceled, 499},
		{InvalidArgument, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{AlreadyExists, http.StatusConflict},
		{Internal, http.StatusInternalServerError},
		{Unavailable, http.StatusServiceUnavailable},
		{Unauthenticated, http.StatusUnauthorized},
		{Code(99), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := tt.code.HTTPCode(); got != tt.want {
				t.Errorf("HTTPCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCodeWireCode(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{NotFound, "NOT_FOUND"},
		{InvalidArgument, "BAD_REQUEST"},
		{OutOfRange, "BAD_REQUEST"},
		{Internal, "INTERNAL_ERROR"},
		{Unknown, "INTERNAL_ERROR"},
		{DataLoss, "INTERNAL_ERROR"},
		{AlreadyExists, "ALREADY_EXISTS"},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := tt.code.WireCode(); got != tt.want {
				t.Errorf("WireCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorWireOverride(t *testing.T) {
	err := NewError(NotFound, "Task with ID task_999 not found", nil).WithWire("TASK_NOT_FOUND")
	if err.WireCode() != "TASK_NOT_FOUND" {
		t.Errorf("WireCode() = %q, want TASK_NOT_FOUND", err.WireCode())
	}
	if NewError(NotFound, "gone", nil).WireCode() != "NOT_FOUND" {
		t.Error("default wire code should come from Code")
	}
}

func TestErrorUnwrapAndIsCode(t *testing.T) {
	underlying := errors.New("boom")
	err := NewError(Internal, "server error", underlying)
	if !errors.Is(err, underlying) {
		t.Error("expected errors.Is to find underlying error")
	}
	if !IsCode(err, Internal) {
		t.Error("IsCode(Internal) = false")
	}
	if IsCode(err, NotFound) {
		t.Error("IsCode(NotFound) = true")
	}
	if IsCode(underlying, Internal) {
		t.Error("IsCode on plain error = true")
	}
}

func TestErrorStackCapture(t *testing.T) {
	if err := NewError(Internal, "server error", nil); err.Stack == "" {
		t.Error("internal errors should capture a stack")
	}
	if err := NewError(NotFound, "gone", nil); err.Stack != "" {
		t.Error("not-found errors should not capture a stack")
	}
}
