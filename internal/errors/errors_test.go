package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeUpstream, http.StatusBadGateway},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("game %s not found", "123")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))
	assert.Equal(t, "game 123 not found", err.Error())
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := Wrap(cause, CodeUpstream, "analytics service unreachable")

	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, ErrUpstream))
	assert.Equal(t, "analytics service unreachable: dial tcp: connection refused", err.Error())
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus())
}

func TestWithDetails_DoesNotMutate(t *testing.T) {
	base := Validation("validation failed")
	detailed := base.WithDetails(map[string]string{"game_id": "is required"})

	assert.Nil(t, base.Details)
	assert.NotNil(t, detailed.Details)
	assert.Equal(t, base.Code, detailed.Code)
}
