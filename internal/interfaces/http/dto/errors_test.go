package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		domainCode string
		expected   string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_TRANSITION", ErrCodeInvalidState},
		{"INSUFFICIENT_STOCK", ErrCodeInsufficientStock},
		{"HAS_CHILDREN", ErrCodeBusinessRule},
		{"STK_REJECTED", ErrCodePaymentRejected},
		{"INVALID_PHONE", ErrCodeInvalidInput},
		{"UNAUTHORIZED", ErrCodeUnauthorized},
		// Already normalized and unknown codes pass through untouched
		{ErrCodeNotFound, ErrCodeNotFound},
		{"SOMETHING_ELSE", "SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.domainCode, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.domainCode))
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeAlreadyExists))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeInsufficientStock))
	assert.Equal(t, http.StatusBadGateway, GetHTTPStatus(ErrCodePaymentRejected))
	assert.Equal(t, http.StatusTooManyRequests, GetHTTPStatus(ErrCodeRateLimited))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_NEVER_HEARD_OF"))
}

func TestEveryDomainCodeMapsToKnownStatus(t *testing.T) {
	for domainCode, wireCode := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[wireCode]
		assert.True(t, ok, "domain code %s maps to %s which has no HTTP status", domainCode, wireCode)
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 41, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
