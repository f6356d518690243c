package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("error string", func(t *testing.T) {
		assert.Equal(t, "EMPTY_CACHE: Cache directory is missing or contains no listing pages", ErrEmptyCache.Error())
	})

	t.Run("WithDetails keeps sentinel identity", func(t *testing.T) {
		derived := ErrEmptyCache.WithDetails(map[string]interface{}{"dir": ".cache"})
		assert.True(t, stderrors.Is(derived, ErrEmptyCache))
		assert.Equal(t, ".cache", derived.Details["dir"])
		assert.Empty(t, ErrEmptyCache.Details)
	})

	t.Run("wrapped sentinel survives fmt wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("building map: %w", ErrNothingToRender)
		assert.True(t, stderrors.Is(wrapped, ErrNothingToRender))
		assert.False(t, stderrors.Is(wrapped, ErrEmptyCache))
	})

	t.Run("different codes do not match", func(t *testing.T) {
		assert.False(t, stderrors.Is(ErrArtifactWrite, ErrExportFailed))
	})
}
