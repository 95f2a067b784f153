package ledger

import "errors"

// ErrNotFound is returned by Query when the ledger has no record under the
// requested key. Implementations must map their transport's miss signal to
// this error so the service can distinguish absence from outage.
var ErrNotFound = errors.New("ledger: asset does not exist")
