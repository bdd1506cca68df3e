package memo

import "errors"

// ErrNotStored marks a loaded value the caller wants returned but not kept,
// such as an empty fail-soft upstream result.
var ErrNotStored = errors.New("memo: value not stored")
