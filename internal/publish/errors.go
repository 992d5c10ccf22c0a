package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/google/go-github/v57/github"
)

// AuthError means the hosting credentials were rejected or lack permission.
type AuthError struct {
	Step string
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("publish %s: access denied: %v", e.Step, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// TargetMissingError means the organization or repository does not exist.
type TargetMissingError struct {
	Step string
	Err  error
}

func (e *TargetMissingError) Error() string {
	return fmt.Sprintf("publish %s: target not found: %v", e.Step, e.Err)
}

func (e *TargetMissingError) Unwrap() error { return e.Err }

// Error is any other publishing failure.
type Error struct {
	Step string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("publish %s: %v", e.Step, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func statusCode(resp *github.Response) int {
	if resp != nil && resp.Response != nil {
		return resp.Response.StatusCode
	}
	return 0
}

// classify maps a hosting API or git transport failure onto the three
// publish error kinds.
func classify(step string, resp *github.Response, err error) error {
	if err == nil {
		return nil
	}
	code := statusCode(resp)
	if code == 0 {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil {
			code = ghErr.Response.StatusCode
		}
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &Error{Step: step, Err: err}
	case code == http.StatusUnauthorized, code == http.StatusForbidden,
		errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed):
		return &AuthError{Step: step, Err: err}
	case code == http.StatusNotFound, errors.Is(err, transport.ErrRepositoryNotFound):
		return &TargetMissingError{Step: step, Err: err}
	default:
		return &Error{Step: step, Err: err}
	}
}
