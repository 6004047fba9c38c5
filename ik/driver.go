package ik

import (
	"context"
	"time"

	"github.com/golang/geo/r2"

	"go.viam.com/planarik/chain"
	"go.viam.com/planarik/logging"
)

// Result describes one Solve call.
type Result struct {
	// Iterations is the number of solver steps taken.
	Iterations int
	// Converged is true when the solver's stopping criterion fired before the iteration cap.
	Converged bool
	// Distance from the end effector to the target after the last step.
	Distance float64
	Elapsed  time.Duration
}

// Solve steps s on c toward target until the solver reports convergence or
// opts.MaxIterations steps have run. Running out of iterations is not an
// error: the chain is left at its best effort, which for an unreachable
// target is the chain stretched toward it. The context is checked between steps.
func Solve(
	ctx context.Context,
	logger logging.Logger,
	s Solver,
	c *chain.Chain,
	target r2.Point,
	opts Options,
) (*Result, error) {
	if err := checkSolvable(c); err != nil {
		return nil, err
	}
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}

	start := time.Now()
	res := &Result{}
	for res.Iterations < maxIter {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		before := c.EndEffector()
		if err := s.Step(c, target); err != nil {
			return nil, err
		}
		res.Iterations++
		if s.Converged(before, c.EndEffector(), target) {
			res.Converged = true
			break
		}
	}
	res.Elapsed = time.Since(start)
	res.Distance = c.DistanceTo(target)

	logger.Debugw("ik solve took "+res.Elapsed.String(),
		"solver", s.Name(),
		"iterations", res.Iterations,
		"converged", res.Converged,
		"distance", res.Distance,
	)
	return res, nil
}
