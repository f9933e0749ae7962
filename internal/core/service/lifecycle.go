package service

import (
	"context"

	"github.com/mercatino/vendor-api/internal/core/domain"
)

// lifecycleStep is one storage mutation inside a cross-store protocol.
type lifecycleStep struct {
	name string
	run  func(context.Context) error
}

// runLifecycle executes steps strictly in order; each step depends on the
// previous one having succeeded. A failure on the first step means no
// storage was mutated and the error is returned as-is (the protocol was
// rejected). A failure on any later step leaves a partial commit and is
// wrapped in a PartialCommitError naming the protocol and the failed step.
// There is no compensation: repair is a caller or operator concern.
func runLifecycle(ctx context.Context, protocol string, steps []lifecycleStep) error {
	for i, st := range steps {
		if err := st.run(ctx); err != nil {
			if i == 0 {
				return err
			}
			return &domain.PartialCommitError{Protocol: protocol, Step: st.name, Err: err}
		}
	}
	return nil
}
