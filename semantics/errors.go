package semantics

import "fmt"

// LabelError reports a 'break' or 'continue' statement found outside of
// any enclosing loop.
type LabelError struct {
	Message string
}

func (e LabelError) Error() string {
	return fmt.Sprintf("💥 LabelError: %s", e.Message)
}
