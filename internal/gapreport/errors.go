package gapreport

import "errors"

// ErrUnknownFormat is returned for an output format other than table, json
// or yaml.
var ErrUnknownFormat = errors.New("unknown output format")
