package process

import (
	"io"
	"sync"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/launchevent"
	"github.com/launchkit/launch/core/logger"
)

// readChunkSize bounds a single OS read; it has no bearing on correctness
// (spec.md §4.D.3 promises no line buffering at this layer, just "whatever
// the OS delivers"), only on how large one ProcessStdout/ProcessStderr
// event's Text can be.
const readChunkSize = 64 * 1024

// pump reads raw bytes from r until EOF, emitting one event per chunk
// received. Emission uses EmitEventSync (non-blocking) so a child producing
// output faster than the dispatch loop can keep up never stalls the pipe.
func (a *Action) pump(lc *launchctx.Context, r io.Reader, eventName string, wg *sync.WaitGroup) {
	defer wg.Done()

	buf := make([]byte, readChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])

			if a.ioLimiter.Allow() {
				a.logger.Debug("process io chunk",
					logger.Process(a.Label()), logger.EventName(eventName), logger.Count("bytes", n))
			}

			payload := ioPayload(eventName, a, a.finalCmd, a.finalCwd, a.finalEnv, chunk)
			lc.EmitEventSync(eventName, payload)
		}
		if err != nil {
			if err != io.EOF {
				a.logger.Debug("process io read ended", logger.Process(a.Label()), logger.EventName(eventName), logger.Error(err))
			}
			return
		}
	}
}

func ioPayload(name string, action *Action, cmd []string, cwd string, env map[string]string, text []byte) any {
	switch name {
	case launchevent.NameProcessStdout:
		return launchevent.ProcessStdout{Action: action, Cmd: cmd, Cwd: cwd, Env: env, Text: text}
	case launchevent.NameProcessStderr:
		return launchevent.ProcessStderr{Action: action, Cmd: cmd, Cwd: cwd, Env: env, Text: text}
	default:
		panic("process: unknown io event name " + name)
	}
}

// handleProcessStdin writes text to the child's stdin. Write failures (the
// child already closed its end) are logged and dropped, never raised
// (spec.md §4.D.3 / §7.4).
func (a *Action) handleProcessStdin(text string) {
	if a.stdinW == nil {
		return
	}
	if _, err := io.WriteString(a.stdinW, text); err != nil {
		a.logger.Warn("stdin write failed, dropping", logger.Process(a.Label()), logger.Error(err))
	}
}
