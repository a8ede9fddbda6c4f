package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	sentinel := Conflict("already following this user")
	err := fmt.Errorf("follow 1->2: %w", sentinel)

	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, errors.Is(err, sentinel))
	assert.Equal(t, "already following this user", MessageOf(err))
	assert.Equal(t, http.StatusConflict, KindOf(err).HTTPStatus())
}

func TestInternalIsMasked(t *testing.T) {
	err := errors.New("pq: connection refused")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "internal server error", MessageOf(err))
	assert.Equal(t, KindInternal, KindOf(nil))

	wrapped := Wrap(KindUpstreamUnavailable, "content provider unavailable", err)
	assert.ErrorIs(t, wrapped, err)
	assert.Equal(t, http.StatusServiceUnavailable, KindOf(wrapped).HTTPStatus())
	assert.Equal(t, "content provider unavailable", MessageOf(wrapped))
}
