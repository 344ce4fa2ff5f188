package pipeline

import "fmt"

// Fatal error taxonomy. Each carries the stage name so the CLI diagnostic can
// point at the failing step. Validation discrepancies are not errors; they
// live in Report.

// SourceReadError means the source file is missing or undecodable after all
// encoding fallbacks. Aborts the run.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("loader: reading source %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// SchemaError means the target store could not be reset or created.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: resetting target store: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// WriteError means bulk persistence failed partway. No partial-commit
// recovery is attempted; the run must be re-executed against a fresh store.
type WriteError struct {
	Table string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writer: persisting %s: %v", e.Table, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
