package ik

import (
	"context"
	"sync"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/planarik/chain"
	"go.viam.com/planarik/logging"
	"go.viam.com/planarik/utils"
)

// Lane is one chain solved by one solver. Every lane in a Runner receives the
// same construction points and targets, so lanes differ only in their solver.
type Lane struct {
	Name    string
	Chain   *chain.Chain
	Solver  Solver
	Options Options
	Enabled bool
	logger  logging.Logger

	// enabled state the lane was added with, restored by Reset
	initialEnabled bool
}

// LaneConfig describes a lane to add to a Runner.
type LaneConfig struct {
	Name    string
	Kind    string
	Options Options
	Enabled bool
}

// Runner drives several lanes side by side toward a shared target. Lanes own
// independent chains, so they are solved concurrently without locking.
type Runner struct {
	mu       sync.Mutex
	lanes    []*Lane
	target   Target
	logger   logging.Logger
	registry *logging.Registry
}

// NewRunner returns a runner with no lanes. Lane loggers are subloggers of logger.
func NewRunner(logger logging.Logger) *Runner {
	return &Runner{logger: logger, registry: logging.NewRegistry()}
}

// NewDefaultRunner returns a runner with the lanes "ccd", "jacobian-transpose"
// and "jacobian-pinv", each with its solver's default options, all enabled.
func NewDefaultRunner(logger logging.Logger) (*Runner, error) {
	r := NewRunner(logger)
	for _, kind := range []string{KindCCD, KindJacobianTranspose, KindJacobianPinv} {
		if err := r.AddLane(LaneConfig{Name: kind, Kind: kind, Options: DefaultOptionsFor(kind), Enabled: true}); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// AddLane adds a lane with a new, empty chain. Lane names must be unique.
func (r *Runner) AddLane(cfg LaneConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg.Name == "" {
		return errors.New("lane name must not be empty")
	}
	if _, ok := r.laneNamed(cfg.Name); ok {
		return errors.Errorf("duplicate lane name %q", cfg.Name)
	}
	if len(r.lanes) > 0 && r.lanes[0].Chain.Frozen() {
		return errors.Wrapf(chain.ErrChainFrozen, "cannot add lane %q", cfg.Name)
	}

	logger := r.registry.Register(r.logger.Sublogger(cfg.Name))
	opts := cfg.Options.withDefaults(DefaultOptionsFor(cfg.Kind))
	solver, err := NewSolver(cfg.Kind, opts, logger)
	if err != nil {
		r.registry.Deregister(logger.Name())
		return errors.Wrapf(err, "lane %q", cfg.Name)
	}

	c := chain.New()
	if len(r.lanes) > 0 {
		// new lanes start from the shape the others were built with
		c = r.lanes[0].Chain.Clone()
	}
	r.lanes = append(r.lanes, &Lane{
		Name:    cfg.Name,
		Chain:   c,
		Solver:  solver,
		Options: opts,
		Enabled: cfg.Enabled,
		logger:  logger,

		initialEnabled: cfg.Enabled,
	})
	return nil
}

func (r *Runner) laneNamed(name string) (*Lane, bool) {
	return lo.Find(r.lanes, func(l *Lane) bool { return l.Name == name })
}

// Lanes returns the lane names in the order they were added.
func (r *Runner) Lanes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Map(r.lanes, func(l *Lane, _ int) string { return l.Name })
}

// Chain returns a copy of the named lane's chain.
func (r *Runner) Chain(name string) (*chain.Chain, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.laneNamed(name)
	if !ok {
		return nil, errors.Errorf("no lane named %q", name)
	}
	return l.Chain.Clone(), nil
}

// Target returns the shared target.
func (r *Runner) Target() Target {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}

// LoggerRegistry holds the loggers of all lanes, for applying level patterns.
func (r *Runner) LoggerRegistry() *logging.Registry {
	return r.registry
}

// AppendPoint extends every lane's chain to p.
func (r *Runner) AppendPoint(p r2.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lanes {
		if err := l.Chain.AppendPoint(p); err != nil {
			return errors.Wrapf(err, "lane %q", l.Name)
		}
	}
	return nil
}

// Freeze locks every lane's chain for solving.
func (r *Runner) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lanes {
		l.Chain.Freeze()
	}
}

// Frozen reports whether the lanes are ready to solve.
func (r *Runner) Frozen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lanes) > 0 && r.lanes[0].Chain.Frozen()
}

// Reset empties every lane's chain, deactivates the target and returns every
// lane to the enabled state it was added with, undoing SetEnabled.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lanes {
		l.Chain.Reset()
		l.Enabled = l.initialEnabled
	}
	r.target = Target{}
}

// SetEnabled turns solving for the named lane on or off. Lanes can only be
// toggled once the chains are frozen.
func (r *Runner) SetEnabled(name string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.laneNamed(name)
	if !ok {
		return errors.Errorf("no lane named %q", name)
	}
	if !l.Chain.Frozen() {
		return errors.Wrapf(ErrChainNotFrozen, "cannot toggle lane %q", name)
	}
	l.Enabled = enabled
	return nil
}

// Enabled reports whether the named lane is solved by MoveTarget.
func (r *Runner) Enabled(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.laneNamed(name)
	return ok && l.Enabled
}

// MoveTarget activates the target at p and solves every enabled lane toward it
// in parallel. The returned map has one result per lane that finished; errors
// from all lanes are combined.
func (r *Runner) MoveTarget(ctx context.Context, p r2.Point) (map[string]*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lanes) == 0 || r.lanes[0].Chain.Len() == 0 {
		return nil, ErrEmptyChain
	}
	r.target = Target{Point: p, Active: true}

	var resultsMu sync.Mutex
	results := make(map[string]*Result, len(r.lanes))
	fs := lo.FilterMap(r.lanes, func(l *Lane, _ int) (utils.SimpleFunc, bool) {
		return func(ctx context.Context) error {
			res, err := Solve(ctx, l.logger, l.Solver, l.Chain, p, l.Options)
			if err != nil {
				return errors.Wrapf(err, "lane %q", l.Name)
			}
			resultsMu.Lock()
			results[l.Name] = res
			resultsMu.Unlock()
			return nil
		}, l.Enabled
	})
	elapsed, err := utils.RunInParallel(ctx, fs)
	r.logger.Debugw("moved target", "x", p.X, "y", p.Y, "lanes", len(fs), "elapsed", elapsed)
	return results, err
}
