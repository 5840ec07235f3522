package mesh

import "log/slog"

// Option configures a Pipeline.
//
// Example:
//
//	p := mesh.New(sdfx.New(),
//		mesh.WithMaxEdgeLength(0.5),
//		mesh.WithSmoothing(4),
//	)
type Option func(*options)

type options struct {
	absTol, relTol     float64
	maxEdgeLength      float64
	smoothIterations   int
	rangeRel, rangeAbs float64
	validate           bool
	logger             *slog.Logger
}

// Default tolerances for merging coincident points.
const (
	DefaultAbsTolerance = 1.0e-10
	DefaultRelTolerance = 1.0e-12
)

// DefaultSmoothIterations is the sweep count Smooth uses unless
// WithSmoothing says otherwise.
const DefaultSmoothIterations = 3

func defaultOptions() options {
	return options{
		absTol:           DefaultAbsTolerance,
		relTol:           DefaultRelTolerance,
		smoothIterations: DefaultSmoothIterations,
	}
}

// WithTolerance sets the merge tolerance to max(abs, rel*extent), where
// extent is the largest coordinate magnitude in the graph.
func WithTolerance(abs, rel float64) Option {
	return func(o *options) {
		o.absTol, o.relTol = abs, rel
	}
}

// WithAbsTolerance sets only the absolute part of the merge tolerance.
func WithAbsTolerance(abs float64) Option {
	return func(o *options) { o.absTol = abs }
}

// WithRelTolerance sets only the relative part of the merge tolerance.
func WithRelTolerance(rel float64) Option {
	return func(o *options) { o.relTol = rel }
}

// WithMaxEdgeLength splits edges longer than l before triangulating.
// Zero, the default, leaves edges alone.
func WithMaxEdgeLength(l float64) Option {
	return func(o *options) {
		o.maxEdgeLength = l
	}
}

// WithSmoothing sets the number of Laplacian sweeps run by Smooth.
func WithSmoothing(iterations int) Option {
	return func(o *options) {
		o.smoothIterations = iterations
	}
}

// WithRangeFringe grows LoadRange rectangles by max(abs, rel*diagonal).
func WithRangeFringe(rel, abs float64) Option {
	return func(o *options) {
		o.rangeRel, o.rangeAbs = rel, abs
	}
}

// WithRangeFringeRel and WithRangeFringeAbs set one half of the range
// fringe, leaving the other as it was.
func WithRangeFringeRel(rel float64) Option {
	return func(o *options) { o.rangeRel = rel }
}

func WithRangeFringeAbs(abs float64) Option {
	return func(o *options) { o.rangeAbs = abs }
}

// WithValidation checks graph structure after every stage and fails the
// stage on any violation.
func WithValidation(on bool) Option {
	return func(o *options) {
		o.validate = on
	}
}

// WithLogger gives the pipeline its own logger instead of the package
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
