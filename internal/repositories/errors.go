package repositories

import "errors"

// ErrNotFound is returned by lookups that miss. Callers translate it into
// the domain error appropriate for their endpoint.
var ErrNotFound = errors.New("record not found")
