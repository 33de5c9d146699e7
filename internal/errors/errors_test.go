package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := ErrExportFailed("Home", errors.New("disk full"))
	assert.Equal(t, "[ERR_EXPORT_FAILED] template:Home cannot produce export payload: disk full", err.Error())

	bare := NewConfigError(ErrCodeMissingKitName, "missing template kit name")
	assert.Equal(t, "[ERR_MISSING_KIT_NAME] missing template kit name", bare.Error())
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsConfigError(ErrNoPageBuilder()))
	assert.True(t, IsConfigError(ErrUnknownPageBuilder("divi")))
	assert.True(t, IsNotFound(ErrNoScreenshot("Home")))
	assert.True(t, IsBuildError(ErrExportFailed("Home", nil)))

	assert.False(t, IsNotFound(ErrNoPageBuilder()))
	assert.False(t, IsConfigError(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading template: %w", ErrNoScreenshot("Home"))
	assert.True(t, IsNotFound(wrapped))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewIOError(ErrCodeStoreUnavailable, "cannot read site store", cause)
	assert.ErrorIs(t, err, cause)
}
