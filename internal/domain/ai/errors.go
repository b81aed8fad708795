package ai

import "errors"

// ErrModelUnavailable indicates the backend completion call errored or timed
// out. It is fatal to the enclosing analysis request.
var ErrModelUnavailable = errors.New("model backend unavailable")
