package export

import "fmt"

// Error locates an operation that failed to resolve during an export pass.
// The underlying resolution error is preserved unwrapped via Unwrap.
type Error struct {
	Function    string
	Block       string
	Instruction string
	Index       int
	Err         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: block %s: instruction %s: pcode %d: %v",
		e.Function, e.Block, e.Instruction, e.Index, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
