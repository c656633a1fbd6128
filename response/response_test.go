package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	ErrorData *string         `json:"error_data"`
	Message   *string         `json:"message"`
}

func serve(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	r := gin.New()
	r.GET("/", h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSuccess(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		Success(c, []string{"Alpha", "Zeta"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.JSONEq(t, `["Alpha","Zeta"]`, string(body.Data))
	assert.Nil(t, body.ErrorData)
	assert.Nil(t, body.Message)
}

func TestEmpty(t *testing.T) {
	w, body := serve(t, Empty)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "null", string(body.Data))
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
		wantMsg    string
	}{
		{
			name:       "not found",
			err:        NotFound("feature not found"),
			wantStatus: http.StatusNotFound,
			wantKind:   "not_found",
			wantMsg:    "feature not found",
		},
		{
			name:       "validation",
			err:        Validation(errors.New("name is required")),
			wantStatus: http.StatusBadRequest,
			wantKind:   "validation_failure",
			wantMsg:    "name is required",
		},
		{
			name:       "wrapped storage",
			err:        fmt.Errorf("handler: %w", Storage("failed to create feature", errors.New("conn reset"))),
			wantStatus: http.StatusInternalServerError,
			wantKind:   "storage_failure",
			wantMsg:    "failed to create feature",
		},
		{
			name:       "unclassified",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantKind:   "storage_failure",
			wantMsg:    "internal storage error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serve(t, func(c *gin.Context) {
				Error(c, tt.err)
			})

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, body.Success)
			require.NotNil(t, body.ErrorData)
			assert.Equal(t, tt.wantKind, *body.ErrorData)
			require.NotNil(t, body.Message)
			assert.Equal(t, tt.wantMsg, *body.Message)
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("conn reset")
	err := Storage("failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "conn reset")
}

func TestAsError(t *testing.T) {
	notFound := NotFound("feature not found")

	got := AsError(fmt.Errorf("loader: %w", notFound))
	assert.Same(t, notFound, got)

	var appErr *AppError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", Validation(errors.New("bad id"))), &appErr)
	assert.Equal(t, KindValidation, appErr.Kind)

	fallback := AsError(errors.New("boom"))
	assert.Equal(t, KindStorage, fallback.Kind)
	assert.Equal(t, "internal storage error", fallback.Message)
}
