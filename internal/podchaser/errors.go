package podchaser

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials means no client id/secret is configured. Callers
// must treat this as "cannot reach live data", not as a fatal condition.
var ErrMissingCredentials = errors.New("podchaser credentials are not configured")

// ErrNoEpisodes means the catalog answered but no podcast in the result
// carried an episode matching the requested filters.
var ErrNoEpisodes = errors.New("no podchaser episodes found within constraints")

// AuthError is returned when the access-token exchange fails.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("podchaser token request failed: %s", e.Message)
}

// QueryError is returned when a catalog query fails with a non-success
// HTTP status or a GraphQL error payload.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("podchaser query failed: %s", e.Message)
}
