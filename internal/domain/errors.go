package domain

import "errors"

var (
	// ErrDataUnavailable wraps every failure of the vote datastore. A query
	// that matches nothing is not an error.
	ErrDataUnavailable = errors.New("vote data unavailable")
	ErrItemNotFound    = errors.New("item not found")
)
