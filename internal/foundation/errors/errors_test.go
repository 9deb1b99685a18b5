package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Builder fields", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "config.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())
		assert.Equal(t, "config.yaml", err.Context()["file"])
		assert.False(t, err.CanRetry())
		assert.Equal(t, "[config:fatal] invalid configuration", err.Error())
	})

	t.Run("Wrapped chain is searchable", func(t *testing.T) {
		cause := stderrors.New("permission denied")
		classified := SourceUnavailableError("read photo directory").WithCause(cause).Build()
		wrapped := fmt.Errorf("listing carousel: %w", classified)

		assert.True(t, HasCategory(wrapped, CategorySourceUnavailable))
		assert.False(t, HasCategory(wrapped, CategoryNetwork))
		assert.ErrorIs(t, wrapped, cause)
		assert.True(t, classified.CanRetry())

		found, ok := AsClassified(wrapped)
		require.True(t, ok)
		assert.Equal(t, SeverityWarning, found.Severity())
		assert.Contains(t, found.Error(), "permission denied")
	})

	t.Run("Unclassified errors", func(t *testing.T) {
		err := stderrors.New("plain")
		_, ok := AsClassified(err)
		assert.False(t, ok)
		assert.False(t, HasCategory(err, CategoryInternal))
	})
}

func TestHTTPErrorAdapter_StatusCodes(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{IndexOutOfRangeError("x").Build(), http.StatusBadRequest},
		{RateLimitError("x").Build(), http.StatusTooManyRequests},
		{NetworkError("x").Build(), http.StatusBadGateway},
		{ValidationError("x").Build(), http.StatusBadRequest},
		{SourceUnavailableError("x").Build(), http.StatusInternalServerError},
		{stderrors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, a.StatusCodeFor(tc.err), "err=%v", tc.err)
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	req := httptest.NewRequest(http.MethodPost, "/api/photos", nil)
	rec := httptest.NewRecorder()

	a.WriteErrorResponse(rec, req, RateLimitError("too many requests").WithContext("limit", 5).Build())

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "too many requests", body.Error)
	assert.Equal(t, string(CategoryRateLimit), body.Code)
	assert.True(t, body.Retryable)
	assert.EqualValues(t, 5, body.Details["limit"])
}

func TestCLIErrorAdapter(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	assert.Equal(t, 0, a.ExitCodeFor(nil))
	assert.Equal(t, 7, a.ExitCodeFor(ConfigError("bad").Build()))
	assert.Equal(t, 2, a.ExitCodeFor(IndexOutOfRangeError("bad").Build()))
	assert.Equal(t, 1, a.ExitCodeFor(stderrors.New("plain")))

	assert.Equal(t, "Error: bad config", a.FormatError(ConfigError("bad config").Build()))
	assert.Contains(t, a.FormatError(InternalError("secret").Build()), "use -v")

	verbose := NewCLIErrorAdapter(true, nil)
	assert.Contains(t, verbose.FormatError(InternalError("secret").Build()), "secret")
}
