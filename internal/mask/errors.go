package mask

import "fmt"

// IOError reports a mask file that could not be read or written. The
// in-memory mask is left untouched when one is returned.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s mask %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
