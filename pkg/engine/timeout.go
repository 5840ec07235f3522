package engine

import (
	"sync"
	"time"

	"github.com/chazu/vumesh/pkg/mesh"
	"github.com/pkg/errors"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrEvalTimeout is returned when a recipe runs past EvalTimeout.
	ErrEvalTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a newer one was started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	pipeline *mesh.Pipeline
	errors   []EvalError
	err      error
}

// waitWithTimeout waits for a result from ch, giving up after EvalTimeout.
// Results whose generation is no longer current are discarded.
//
// On timeout the goroutine may still be running; the generation check
// drops its result when it completes.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*mesh.Pipeline, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.pipeline, res.errors, res.err

	case <-timer.C:
		return nil, nil, errors.Wrapf(ErrEvalTimeout, "after %s", EvalTimeout)
	}
}
