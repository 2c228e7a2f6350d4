// Package callback provides transcript callbacks run by the agent loop after
// each iteration's tool dispatch. MessageLogger writes an incremental
// markdown log of an agent's conversation.
package callback

import (
	"context"

	"github.com/hupe1980/researchmesh/core"
)

// Func adapts a plain function to core.Callback.
type Func func(ctx context.Context, t core.Transcript) (core.Transcript, error)

// Call implements core.Callback.
func (f Func) Call(ctx context.Context, t core.Transcript) (core.Transcript, error) {
	return f(ctx, t)
}
