package analysis

import "fmt"

// StageError reports a fatal pipeline failure carrying the name of the stage
// that triggered it. No partial result accompanies it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("analysis stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// AuditWriteError reports a failed audit-log write for an analysis that
// otherwise completed. The orchestrator returns it alongside the finished
// result so callers see the failure without losing the analysis.
type AuditWriteError struct {
	Err error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("audit log write failed: %v", e.Err)
}

func (e *AuditWriteError) Unwrap() error { return e.Err }
