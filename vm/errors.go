package vm

import "fmt"

// RuntimeError reports a failure detected while executing bytecode: an
// undefined global, an argcount/propcount mismatch, an unknown
// property, or a stack-discipline violation. Spec.md section 7 requires
// the literal "runtime error: <msg>" wording on stderr with a non-zero
// exit, and no exception/unwind mechanism beyond returning this error
// out of Run.
type RuntimeError struct {
	Message string
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %s", e.Message)
}
