package eval

import "fmt"

// CycleError reports that recursive expansion re-entered a component
// already in flight on the current evaluation path.
type CycleError struct {
	Name string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic dependency detected at %q", e.Name)
}
