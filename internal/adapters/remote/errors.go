package remote

import "errors"

// ErrUpstreamUnavailable covers every failed fetch: transport error, non-200
// status or an undecodable body. It never leaves this package; the exported
// fetchers turn it into an empty result.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")
