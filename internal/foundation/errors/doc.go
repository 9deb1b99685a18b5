// Package errors provides the classified error primitives used across the birthday site.
//
// Every failure the core can produce is local and recoverable, so the domain categories are few:
//   - CategorySourceUnavailable: a photo listing could not be read (degrades to an empty list)
//   - CategoryIndexOutOfRange: a navigation target outside the carousel (rejected, state unchanged)
//
// plus the ambient categories for configuration, validation, rate limiting and internal faults.
//
// Example usage:
//
//	err := errors.SourceUnavailableError("read photo directory").
//		WithCause(readErr).
//		WithContext("category", "carousel").
//		Build()
package errors
