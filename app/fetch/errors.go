package fetch

import (
	"errors"
	"fmt"
)

// Kind classifies a fetch failure for fallback-cascade decisions.
type Kind int

const (
	KindNone Kind = iota
	// KindNetwork covers timeouts, refused connections and server errors.
	KindNetwork
	// KindRateLimit covers HTTP 401/403 from a quota-limited API.
	KindRateLimit
	// KindEmpty means the strategy ran cleanly but produced zero items.
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network error"
	case KindRateLimit:
		return "rate limited"
	case KindEmpty:
		return "no items"
	default:
		return "none"
	}
}

// Error is a classified fetch failure.
type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.URL)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func networkError(url string, err error) *Error {
	return &Error{Kind: KindNetwork, URL: url, Err: err}
}

func rateLimitError(url string, err error) *Error {
	return &Error{Kind: KindRateLimit, URL: url, Err: err}
}

func emptyError(url string) *Error {
	return &Error{Kind: KindEmpty, URL: url}
}

// KindOf extracts the classification from an error chain, or KindNone for
// errors that did not originate in this package.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindNone
}
