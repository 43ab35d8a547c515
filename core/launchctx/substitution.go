package launchctx

import "context"

// Substitution is a lazy, context-dependent string producer. It is the only
// contract the core consumes from the (out-of-scope) substitution language;
// concrete substitutions live in core/launchsub.
type Substitution interface {
	Resolve(ctx context.Context, lc *Context) (string, error)
}
