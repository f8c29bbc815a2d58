// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal indicates internal server error. It is returned whenever the
// underlying cause must not leak to the caller.
var ErrInternal = errors.New("internal")
