package launchentity

import (
	"context"

	"github.com/launchkit/launch/core/launchctx"
)

// LogInfo is a structural no-op entity besides writing a log line through
// the Context's ambient logger; it exists so a description tree can leave a
// breadcrumb without a handler reaching into lc.Logger directly.
type LogInfo struct {
	Message string
}

// Visit implements launchctx.Entity.
func (l LogInfo) Visit(_ context.Context, lc *launchctx.Context) ([]launchctx.Entity, error) {
	lc.Logger.Info(l.Message)
	return nil, nil
}
