package compliance

import "errors"

// ErrProviderUnavailable indicates a compliance-provider read failed. Fatal
// to the enclosing request unless the gate is a bypass variant.
var ErrProviderUnavailable = errors.New("compliance provider unavailable")
