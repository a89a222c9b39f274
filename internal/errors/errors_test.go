package errors_test

import (
	"fmt"
	"testing"

	"codeberg.org/mutker/nvcolorful/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	errFactory := errors.New()

	assert.Equal(t, "Error in main loop", errFactory.New(errors.ErrMainLoop).Error())
	assert.Equal(t, "custom", errFactory.WithMessage(errors.ErrMainLoop, "custom").Error())
	assert.Equal(t, "Invalid configuration: bad", errFactory.WithData(errors.ErrInvalidConfig, "bad").Error())
	assert.Equal(t, "unknown_code", errFactory.New("unknown_code").Error())
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := errors.New().Wrap(errors.ErrSampleUsage, cause)

	assert.Equal(t, "Failed to sample GPU usage: boom", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, errors.ErrSampleUsage, err.Code())
}

func TestHasCode(t *testing.T) {
	errFactory := errors.New()
	inner := errFactory.New(errors.ErrSampleUsage)
	outer := errFactory.Wrap(errors.ErrMainLoop, inner)

	assert.True(t, errors.HasCode(outer, errors.ErrMainLoop))
	assert.True(t, errors.HasCode(outer, errors.ErrSampleUsage))
	assert.True(t, errors.HasCode(fmt.Errorf("context: %w", outer), errors.ErrSampleUsage))
	assert.False(t, errors.HasCode(outer, errors.ErrInternal))
	assert.False(t, errors.HasCode(fmt.Errorf("plain"), errors.ErrInternal))
	assert.False(t, errors.HasCode(nil, errors.ErrInternal))
}
