package apierror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/apierror"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apierror.Validation("bad input"), http.StatusBadRequest},
		{apierror.Business(apierror.CodeInsufficientStock, "short"), http.StatusBadRequest},
		{apierror.NotFound("missing"), http.StatusNotFound},
		{apierror.Conflict(apierror.CodeDuplicateSaleNumber, "taken"), http.StatusConflict},
		{apierror.Fatal(apierror.CodeStateDivergence, "diverged", nil), http.StatusInternalServerError},
		{errors.New("some db error"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, apierror.HTTPStatus(tc.err), "err=%v", tc.err)
	}
}

func TestKindOf_ForeignErrorIsFatal(t *testing.T) {
	assert.Equal(t, apierror.KindFatal, apierror.KindOf(errors.New("boom")))
}

func TestCodeOf_Wrapped(t *testing.T) {
	inner := apierror.Business(apierror.CodeInvalidPayment, "short")
	wrapped := fmt.Errorf("complete: %w", inner)
	assert.Equal(t, apierror.CodeInvalidPayment, apierror.CodeOf(wrapped))
}

func TestWithContext(t *testing.T) {
	err := apierror.Business(apierror.CodeInsufficientStock, "insufficient stock").
		WithContext("available", 2).
		WithContext("requested", 5)

	assert.Equal(t, 2, err.Context["available"])
	assert.Equal(t, 5, err.Context["requested"])
}

func TestFromError_MasksInternals(t *testing.T) {
	// Foreign errors must not leak their message
	body := apierror.FromError(errors.New("pq: connection refused host=10.0.0.3"))
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.Equal(t, "internal server error", body.Detail)

	// Fatal errors keep their code but hide the detail
	body = apierror.FromError(apierror.Fatal(apierror.CodeSaleNumberCorrupt, "ledger corrupt", nil))
	assert.Equal(t, apierror.CodeSaleNumberCorrupt, body.Code)
	assert.Equal(t, "internal server error", body.Detail)

	// Business errors pass through with context
	body = apierror.FromError(apierror.Business(apierror.CodeInsufficientStock, "insufficient stock").
		WithContext("available", 2))
	assert.Equal(t, "insufficient stock", body.Detail)
	assert.Equal(t, 2, body.Context["available"])
}
