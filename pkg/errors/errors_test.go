package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Creation(t *testing.T) {
	cause := errors.New("underlying error")

	err := NewValidationError("test validation error", cause)

	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, "test validation error", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.NotNil(t, err.Context)
}

func TestDomainError_WithContext(t *testing.T) {
	err := NewDeploymentError("test error", nil)

	err = err.WithContext("check_id", "check_1").WithContext("searched", []string{"/a", "/b"})

	assert.Equal(t, "check_1", err.Context["check_id"])
	assert.Equal(t, []string{"/a", "/b"}, err.Context["searched"])
}

func TestDomainError_ErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		error    *DomainError
		expected string
	}{
		{
			name:     "error without cause",
			error:    NewValidationError("'name' is a required property", nil),
			expected: "validation: 'name' is a required property",
		},
		{
			name:     "error with cause",
			error:    NewDeploymentError("check failed", errors.New("cause")),
			expected: "deployment: check failed: cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.error.Error())
		})
	}
}

func TestDomainError_TypeChecking(t *testing.T) {
	validationErr := NewValidationError("validation error", nil)
	deploymentErr := NewDeploymentError("deployment error", nil)

	assert.True(t, IsValidationError(validationErr))
	assert.False(t, IsValidationError(deploymentErr))

	assert.True(t, IsDeploymentError(deploymentErr))
	assert.False(t, IsDeploymentError(validationErr))

	assert.False(t, IsValidationError(errors.New("plain")))

	wrapped := fmt.Errorf("stage failed: %w", validationErr)
	assert.True(t, IsValidationError(wrapped))
	assert.Equal(t, ErrorTypeValidation, KindOf(wrapped))
	assert.Equal(t, ErrorType(""), KindOf(errors.New("plain")))
}

func TestDomainError_Is(t *testing.T) {
	err := NewDeploymentError("duplicate", nil)

	assert.True(t, errors.Is(err, &DomainError{Type: ErrorTypeDeployment}))
	assert.False(t, errors.Is(err, &DomainError{Type: ErrorTypeValidation}))
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewIOError("test error", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestAllErrorTypes(t *testing.T) {
	errorTypes := []struct {
		name        string
		constructor func(string, error) *DomainError
		checker     func(error) bool
		errorType   ErrorType
	}{
		{"validation", NewValidationError, IsValidationError, ErrorTypeValidation},
		{"deployment", NewDeploymentError, IsDeploymentError, ErrorTypeDeployment},
		{"io", NewIOError, IsIOError, ErrorTypeIO},
		{"internal", NewInternalError, IsInternalError, ErrorTypeInternal},
	}

	for _, tt := range errorTypes {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.constructor("test message", nil)
			assert.Equal(t, tt.errorType, err.Type)
			assert.True(t, tt.checker(err))
		})
	}
}

func TestAddContext(t *testing.T) {
	err := NewValidationError("bad", nil)
	wrapped := fmt.Errorf("outer: %w", err)

	assert.Equal(t, wrapped, AddContext(wrapped, "check_id", "check_1"))
	assert.Equal(t, "check_1", err.Context["check_id"])

	plain := errors.New("plain")
	assert.Equal(t, plain, AddContext(plain, "check_id", "check_1"))
}
