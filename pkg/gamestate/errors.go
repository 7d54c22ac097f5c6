package gamestate

import (
	"errors"
	"fmt"
)

// Remote call names used in errors and logs.
const (
	CallLookRoom      = "room.look"
	CallMove          = "room.move"
	CallLookDirection = "room.lookDirection"
	CallInventory     = "character.inventory"
	CallOrigin        = "character.origin"
	CallInspect       = "doodad.inspect"
	CallGet           = "doodad.get"
	CallUseOnSelf     = "doodad.useOnSelf"
	CallUseOnOther    = "doodad.useOnOther"
	CallWriteNote     = "note.write"
)

// ErrNoPendingUse is returned when a use target is chosen with no tool selected.
var ErrNoPendingUse = errors.New("no item selected to use")

// CallError is a remote call that did not complete successfully.
type CallError struct {
	Call string
	Err  error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Call, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// IsCallError reports whether err is, or wraps, a failed remote call.
func IsCallError(err error) bool {
	var callErr *CallError
	return errors.As(err, &callErr)
}
