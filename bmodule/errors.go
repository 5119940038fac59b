package bmodule

import "fmt"

// InvalidTopLevelErr is returned when a module's AST root is not a program
// (core spec §7).
type InvalidTopLevelErr struct {
	Module ID
}

func (e *InvalidTopLevelErr) Error() string {
	return fmt.Sprintf("module %s: AST root is not a program", e.Module.Name)
}

// UnsupportedExportErr is returned when an `exports`-shape is recognised but
// its right-hand side is neither an identifier nor `$foreign.X`.
type UnsupportedExportErr struct {
	Module ID
	Detail string
}

func (e *UnsupportedExportErr) Error() string {
	return fmt.Sprintf("module %s: unsupported export shape: %s", e.Module.Name, e.Detail)
}

// ErrorInModule wraps any error produced while processing a specific module
// with that module's identity, per core spec §7.
type ErrorInModule struct {
	Module ID
	Inner  error
}

func (e *ErrorInModule) Error() string {
	return fmt.Sprintf("module %s (%s): %v", e.Module.Name, e.Module.Type, e.Inner)
}

func (e *ErrorInModule) Unwrap() error { return e.Inner }

// Wrap wraps err (if non-nil) as an ErrorInModule for id.
func Wrap(id ID, err error) error {
	if err == nil {
		return nil
	}
	return &ErrorInModule{Module: id, Inner: err}
}
