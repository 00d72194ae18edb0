package results

import "errors"

// ErrTornDown is returned by update operations after Teardown. A torn
// down controller is terminal; build a new one instead.
var ErrTornDown = errors.New("results: controller is torn down")
