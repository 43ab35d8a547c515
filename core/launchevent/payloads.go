package launchevent

// Action identifies the originating ProcessAction of a process-scoped event.
// It is typed as `any` here (rather than a concrete *process.Action) so this
// package has no dependency on core/process; handlers compare it for
// identity with `==` against the *process.Action they were filtered for.
type Action = any

// IncludeLaunchDescription asks the runtime to visit another Entity,
// recursively expanding whatever sub-description it produces.
type IncludeLaunchDescription struct {
	Description any // launchctx.Entity; kept as `any` to avoid an import cycle
}

// Shutdown requests the LaunchService stop its dispatch loop and tear down
// every live child process.
type Shutdown struct {
	Reason string
}

// ShutdownProcess requests graceful termination (SIGINT -> SIGTERM -> SIGKILL
// escalation) of one child.
type ShutdownProcess struct {
	Action Action
}

// SignalProcess requests delivery of a specific signal number to one child.
type SignalProcess struct {
	Action       Action
	SignalNumber int
}

// ProcessStdin carries text to be written to a child's stdin.
type ProcessStdin struct {
	Action Action
	Text   string
}

// ProcessStarted is emitted exactly once, right after a child is spawned
// successfully.
type ProcessStarted struct {
	Action Action
	Cmd    []string
	Cwd    string
	Env    map[string]string
}

// ProcessExited is emitted exactly once, whenever a child terminates (or
// fails to spawn at all, in which case ReturnCode is -1).
type ProcessExited struct {
	Action     Action
	Cmd        []string
	Cwd        string
	Env        map[string]string
	ReturnCode int
}

// ProcessStdout carries one chunk of bytes read from a child's stdout pipe.
// Chunk boundaries are whatever the OS read() call delivered; no line
// buffering is implied.
type ProcessStdout struct {
	Action Action
	Cmd    []string
	Cwd    string
	Env    map[string]string
	Text   []byte
}

// ProcessStderr is the stderr counterpart to ProcessStdout.
type ProcessStderr struct {
	Action Action
	Cmd    []string
	Cwd    string
	Env    map[string]string
	Text   []byte
}
