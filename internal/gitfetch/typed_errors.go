package gitfetch

import "fmt"

// Typed clone errors enabling structured classification without string parsing upstream.

type AuthError struct {
	URL string
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("clone auth error for %s: %v", e.URL, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

type NotFoundError struct {
	URL string
	Err error
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("repository not found %s: %v", e.URL, e.Err) }
func (e *NotFoundError) Unwrap() error { return e.Err }

type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string { return fmt.Sprintf("invalid repository URL %q: %v", e.URL, e.Err) }
func (e *InvalidURLError) Unwrap() error { return e.Err }

type NetworkTimeoutError struct {
	URL string
	Err error
}

func (e *NetworkTimeoutError) Error() string { return fmt.Sprintf("clone timeout for %s: %v", e.URL, e.Err) }
func (e *NetworkTimeoutError) Unwrap() error { return e.Err }
