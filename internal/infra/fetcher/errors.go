package fetcher

import "errors"

var (
	// ErrInvalidURL indicates the article URL failed validation.
	ErrInvalidURL = errors.New("invalid article URL")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("content fetch timed out")

	// ErrTooManyRedirects indicates the redirect chain exceeded the limit.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrExtractionFailed indicates no readable article text could be
	// extracted from the fetched page.
	ErrExtractionFailed = errors.New("content extraction failed")
)
