package launchevent

// Stable dotted event names. Renaming any of these breaks user matchers, so
// they are kept as named constants rather than derived from Go type names.
const (
	NameIncludeLaunchDescription = "launch.events.IncludeLaunchDescription"
	NameShutdown                 = "launch.events.Shutdown"

	NameProcessStarted   = "launch.events.process.ProcessStarted"
	NameProcessExited    = "launch.events.process.ProcessExited"
	NameProcessStdout    = "launch.events.process.ProcessStdout"
	NameProcessStderr    = "launch.events.process.ProcessStderr"
	NameProcessStdin     = "launch.events.process.ProcessStdin"
	NameShutdownProcess  = "launch.events.process.ShutdownProcess"
	NameSignalProcess    = "launch.events.process.SignalProcess"
)
