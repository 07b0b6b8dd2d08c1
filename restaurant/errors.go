package restaurant

import "emperror.dev/errors"

// ErrNotFound is returned by Update when no restaurant has the given id.
const ErrNotFound = errors.Sentinel("restaurant doesn't exist")
