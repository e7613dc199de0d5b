package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"zebu/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestFromDomain(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{core.NewVariableError("color", "has 1 categories"), CodeInvalidVariable, http.StatusBadRequest},
		{fmt.Errorf("%w: N=0", core.ErrInsufficientData), CodeInsufficientData, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: %q", core.ErrInvalidMeasure, "odds"), CodeInvalidMeasure, http.StatusBadRequest},
		{core.NewArityError("npmi", "exactly 2", 3), CodeUnsupportedArity, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: %w", core.ErrUnsupportedMeasure, core.NewArityError("npmi", "exactly 2", 3)), CodeUnsupportedMeasure, http.StatusUnprocessableEntity},
		{core.ErrFieldNotAvailable, CodeFieldNotAvailable, http.StatusConflict},
		{core.NewNotFoundError("association result", "x"), CodeNotFound, http.StatusNotFound},
		{core.NewParameterError("permutations", "must be positive"), CodeInvalidInput, http.StatusBadRequest},
		{errors.New("disk on fire"), CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			appErr := FromDomain(tt.err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, HTTPStatus(appErr.Code))
			assert.True(t, errors.Is(appErr, tt.err))
		})
	}
	assert.Nil(t, FromDomain(nil))
}

func TestWrapKeepsCode(t *testing.T) {
	inner := NotFound("result")
	wrapped := Wrapf(inner, "load %s", "abc")
	assert.Equal(t, CodeNotFound, GetCode(wrapped))
	assert.Equal(t, "load abc: result not found", wrapped.Error())

	domain := Wrap(core.ErrInsufficientData, "estimate")
	assert.Equal(t, CodeInsufficientData, GetCode(domain))
	assert.True(t, errors.Is(domain, core.ErrInsufficientData))

	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Equal(t, "UNKNOWN", GetCode(errors.New("plain")))
}
