package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewNotFoundError("session")
	assert.Equal(t, "NOT_FOUND: session not found", err.Error())

	wrapped := WrapError(stderrors.New("boom"), ErrCodeInternal, "something broke", http.StatusInternalServerError)
	assert.Contains(t, wrapped.Error(), "boom")
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("cause")
	err := WrapError(cause, ErrCodeInternal, "wrapped", http.StatusInternalServerError)
	assert.ErrorIs(t, err, cause)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewInvalidInputError("bad token").WithContext("param", "mediaId")
	assert.Equal(t, "mediaId", err.Context["param"])
}

func TestGetAppError(t *testing.T) {
	appErr := NewUnauthorizedError("nope")
	wrapped := fmt.Errorf("outer: %w", appErr)

	got := GetAppError(wrapped)
	assert.NotNil(t, got)
	assert.Equal(t, ErrCodeUnauthorized, got.Code)

	assert.Nil(t, GetAppError(stderrors.New("plain")))
	assert.Nil(t, GetAppError(nil))
}

func TestIsAppError(t *testing.T) {
	assert.True(t, IsAppError(NewRateLimitError()))
	assert.False(t, IsAppError(stderrors.New("plain")))
}

func TestHTTPStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatusFor(NewNotFoundError("media")))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatusFor(NewRateLimitError()))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFor(stderrors.New("plain")))
}
