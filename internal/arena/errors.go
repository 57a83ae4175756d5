package arena

import "errors"

// ErrCapacityExceeded is returned (wrapped with detail) whenever an arena
// would grow past its fixed capacity. Spec §7: CapacityExceeded, fatal.
var ErrCapacityExceeded = errors.New("capacity exceeded")
