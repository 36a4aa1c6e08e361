package engine

// UnitState captures the lifecycle terminal state of one (module, checker)
// execution unit.
type UnitState string

// Unit lifecycle states. Queued and Running are transient; every unit ends
// in Completed, TimedOut, or Failed.
const (
	UnitStateQueued    UnitState = "queued"
	UnitStateRunning   UnitState = "running"
	UnitStateCompleted UnitState = "completed"
	UnitStateTimedOut  UnitState = "timed_out"
	UnitStateFailed    UnitState = "failed"
)

// UnitResult is the outcome of one checker execution on one module. Timed-out
// and failed units carry a rendered diagnostic fragment so the failure is
// visible in the report instead of aborting the run.
type UnitResult struct {
	ModuleName        string
	CheckerIdentifier string
	State             UnitState
	Fragment          string
}
