package launchentity

import (
	"context"

	"github.com/launchkit/launch/core/launchctx"
)

// IncludeLaunchDescription wraps a sub-Entity so a description tree built in
// Go source can nest one description inside another, visited inline within
// the same dispatch turn. This is distinct from launchevent's
// IncludeLaunchDescription payload, which core/service's event handler uses
// to include a description supplied asynchronously (e.g. from pkg/loader's
// hot-reload watch) rather than from a parent Visit call.
type IncludeLaunchDescription struct {
	Description launchctx.Entity
}

// Visit implements launchctx.Entity.
func (i IncludeLaunchDescription) Visit(_ context.Context, _ *launchctx.Context) ([]launchctx.Entity, error) {
	if i.Description == nil {
		return nil, nil
	}
	return []launchctx.Entity{i.Description}, nil
}
