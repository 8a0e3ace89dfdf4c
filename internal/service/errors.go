// Package service implements the sync operations against the hub store and
// the remote gateway.
package service

import (
	"fmt"

	"github.com/thevinciapp/vinci-hub/internal/gateway"
)

// ValidationError reports a missing or malformed operation argument. The
// store is never touched when one is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a reference to an entity absent from the currently
// loaded store slice. It signals that the caller's view is stale and should
// be re-synced from the next broadcast, not retried.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// Gateway is the remote surface the services depend on. *gateway.Client
// implements it; tests substitute fakes.
type Gateway interface {
	gateway.API
	SetSession(accessToken string)
	ClearSession()
	HasSession() bool
}
