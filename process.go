package officepool

import "github.com/alnah/go-officepool/internal/process"

// ProcessManager finds and kills worker processes. Implementations outside
// this module may be supplied through SetProcessManager.
type ProcessManager = process.Manager

// ProcessQuery selects a process by command-line substrings.
type ProcessQuery = process.Query

// Sentinel errors a ProcessManager returns from FindPID.
var (
	ErrPIDNotFound = process.ErrPIDNotFound
	ErrPIDUnknown  = process.ErrPIDUnknown
)
