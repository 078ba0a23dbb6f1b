package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
)

// TestCategorizeError verifies that CategorizeError maps sentinel and wrapped
// errors to the metric label the client and handlers record.
func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ""},
		{"timeout context", context.DeadlineExceeded, ErrorCategoryTimeout},
		{"timeout sentinel", fmt.Errorf("%w: %w", ErrTimeout, errors.New("i/o")), ErrorCategoryTimeout},
		{"canceled context", context.Canceled, ErrorCategoryCanceled},
		{"invalid API key", ErrInvalidAPIKey, ErrorCategoryInvalidAPIKey},
		{"wrapped invalid API key", fmt.Errorf("fetch: %w", ErrInvalidAPIKey), ErrorCategoryInvalidAPIKey},
		{"location not found", fmt.Errorf("%w: city not found", ErrLocationNotFound), ErrorCategoryLocationNotFound},
		{"invalid query", fmt.Errorf("%w: Nothing to geocode", ErrInvalidQuery), ErrorCategoryInvalidQuery},
		{"rate limited", ErrRateLimited, ErrorCategoryRateLimited},
		{"upstream failure", fmt.Errorf("%w: HTTP 502", ErrUpstreamFailure), ErrorCategoryUpstream},
		{"malformed payload", fmt.Errorf("%w: missing sys", ErrMalformedPayload), ErrorCategoryMalformed},
		{"transport sentinel", fmt.Errorf("%w: %w", ErrTransport, errors.New("dial tcp")), ErrorCategoryNetwork},
		{"bare url error", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("dial tcp")}, ErrorCategoryNetwork},
		{"connection text alone is not classified", errors.New("connection refused"), ErrorCategoryUnknown},
		{"unknown", errors.New("something else"), ErrorCategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategorizeError(tt.err)
			if got != tt.want {
				t.Errorf("CategorizeError() = %v, want %v", got, tt.want)
			}
		})
	}
}
