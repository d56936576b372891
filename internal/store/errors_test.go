package store_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/streamscoutapp/streamscout-server/internal/store"
)

func TestError_Message(t *testing.T) {
	assert.Equal(t, "record not found", store.ErrNotFound.Error())

	cause := errors.New("unexpected EOF")
	err := store.ErrCorrupt.WithCause(cause)
	assert.Equal(t, "stored record is corrupt: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := store.ErrNotFound.WithMessage("no snapshot stored")

	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NotErrorIs(t, err, store.ErrCorrupt)
	assert.Equal(t, http.StatusNotFound, err.HTTPCode())
}
