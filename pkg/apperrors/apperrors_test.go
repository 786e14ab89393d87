package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"orgdesk/pkg/apperrors"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.BadInput("x"), http.StatusBadRequest},
		{apperrors.Unauthorized("x"), http.StatusUnauthorized},
		{apperrors.Forbidden("x"), http.StatusForbidden},
		{apperrors.NotFound("x"), http.StatusNotFound},
		{apperrors.Conflict("x"), http.StatusConflict},
		{apperrors.Internal("x", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, apperrors.Status(tc.err))
	}
}

func TestMessageNeverLeaksInternalCause(t *testing.T) {
	err := apperrors.Internal("create user failed", errors.New("dial tcp 10.0.0.5:3306: timeout"))
	assert.Equal(t, "create user failed", apperrors.Message(err))

	// 非业务错误一律回固定文案
	assert.Equal(t, "internal error", apperrors.Message(errors.New("dial tcp: refused")))
}

func TestWrappedErrorKeepsKind(t *testing.T) {
	inner := apperrors.NotFound("employee not found")
	wrapped := fmt.Errorf("get employee: %w", inner)
	assert.True(t, apperrors.IsKind(wrapped, apperrors.KindNotFound))
	assert.Equal(t, http.StatusNotFound, apperrors.Status(wrapped))
}
