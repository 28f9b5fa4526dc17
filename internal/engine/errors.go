package engine

import "errors"

// Sentinel errors surfaced by the core, per spec §7.
var (
	ErrTableNotFound      = errors.New("engine: table not found")
	ErrTableAlreadyExists = errors.New("engine: table already exists")
	ErrFieldNotFound      = errors.New("engine: field not found")
	ErrTypeMismatch       = errors.New("engine: type mismatch")
	ErrPrimaryReadOnly    = errors.New("engine: primary column may not be updated")
	ErrNotImplemented     = errors.New("engine: not implemented")
)
