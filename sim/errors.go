package sim

import "errors"

// ErrInvalidConfig reports a configuration or input that cannot produce a
// spike matrix: unknown algorithm, fewer than one fiber, a negative
// refractory period or a malformed rate matrix. Errors returned by this
// package wrap it, so callers test with errors.Is.
var ErrInvalidConfig = errors.New("invalid config")
