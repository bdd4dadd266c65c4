package pipeline

import "errors"

// ErrDataShape marks a failure that must abort the entire run with no
// partial output, per §7: a missing required column or an unparseable
// required date. Wrap a descriptive cause with fmt.Errorf("...: %w", ErrDataShape).
var ErrDataShape = errors.New("data-shape error")
