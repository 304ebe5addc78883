package genetics

import (
	"github.com/pkg/errors"

	"github.com/gaul-go/gaul"
)

func errorsMissingBinding(name string) error {
	return errors.Wrapf(gaul.ErrMisconfigured, "missing required operator binding: %s", name)
}

// WorkerFailedError is returned by a parallel evaluator (genetics/parallel)
// when a worker process/thread/rank dies or its transport errors mid
// evaluation. The driver has already drained the other workers and reset
// every affected entity's fitness to the sentinel by the time this is
// returned.
type WorkerFailedError struct {
	Cause error
}

func (e *WorkerFailedError) Error() string {
	return "gaul: worker failed: " + e.Cause.Error()
}

func (e *WorkerFailedError) Unwrap() error {
	return e.Cause
}
