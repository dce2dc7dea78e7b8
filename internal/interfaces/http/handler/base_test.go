package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
	"github.com/muhohoweb/shoe-app/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Success(c, gin.H{"hello": "world"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerHandleErrorDomainError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "not found",
			err:            shared.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrCodeNotFound,
		},
		{
			name:           "insufficient stock",
			err:            shared.ErrInsufficientStock,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   dto.ErrCodeInsufficientStock,
		},
		{
			name:           "invalid transition",
			err:            shared.NewDomainError("INVALID_TRANSITION", "cannot ship a cancelled order"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   dto.ErrCodeInvalidState,
		},
		{
			name:           "duplicate",
			err:            shared.NewDomainError("ALREADY_EXISTS", "category exists"),
			expectedStatus: http.StatusConflict,
			expectedCode:   dto.ErrCodeAlreadyExists,
		},
		{
			name:           "opaque error",
			err:            errors.New("pq: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   dto.ErrCodeInternal,
		},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}
}

func TestBaseHandlerHandleErrorHidesInternalDetails(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.HandleError(c, errors.New("dial tcp 10.0.0.3:5432: connect: connection refused"))

	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}
