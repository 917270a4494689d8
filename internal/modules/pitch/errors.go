package pitch

import "errors"

// ErrUnknownMode is returned for a narrative mode the service does not
// recognize
var ErrUnknownMode = errors.New("unknown narrative mode")
