package errors

// ErrorCategory routes an error to an HTTP status and an exit code.
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration and input errors.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryRateLimit  ErrorCategory = "rate_limit"

	// CategorySourceUnavailable represents a listing that could not be read.
	CategorySourceUnavailable ErrorCategory = "source_unavailable"
	CategoryIndexOutOfRange   ErrorCategory = "index_out_of_range"

	// CategoryNetwork represents failures talking to a remote site server.
	CategoryNetwork ErrorCategory = "network"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity picks the log level.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning" // degraded, still serving
	SeverityInfo    ErrorSeverity = "info"
)

// RetryStrategy hints whether and how a caller may retry.
type RetryStrategy string

const (
	RetryNever     RetryStrategy = "never"
	RetryBackoff   RetryStrategy = "backoff"
	RetryRateLimit RetryStrategy = "rate_limit" // after the limiter refills
)

// ErrorContext carries structured details, rendered as "details" in HTTP error bodies.
type ErrorContext map[string]any

// Set adds or replaces key, allocating a nil context.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}
