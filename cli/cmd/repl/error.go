package repl

import "github.com/ardnew/epp/lang"

// Sentinel errors.
var (
	ErrOutOfBounds    = lang.NewError("index out of range")
	ErrEditDeclined   = lang.NewError("decline edit")
	ErrUnknownCommand = lang.NewError("unknown command")
)
