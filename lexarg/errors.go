package lexarg

import "errors"

// ErrPendingValue is returned by the raw passthroughs while an attached value
// (--flag=value, -Fvalue) has been produced but not yet claimed.
var ErrPendingValue = errors.New("attached value pending")
