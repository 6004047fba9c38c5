package main

import (
	"context"
	"fmt"
	"io"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/planarik/chain"
	"go.viam.com/planarik/config"
	"go.viam.com/planarik/ik"
	"go.viam.com/planarik/logging"
)

func buildChain(cfg *config.Config) (*chain.Chain, error) {
	c := chain.New()
	for _, p := range cfg.ChainPoints() {
		if err := c.AppendPoint(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func buildRunner(cfg *config.Config, logger logging.Logger) (*ik.Runner, error) {
	lanes, err := cfg.LaneConfigs()
	if err != nil {
		return nil, err
	}
	r := ik.NewRunner(logger)
	for _, lc := range lanes {
		if err := r.AddLane(lc); err != nil {
			return nil, err
		}
	}
	r.LoggerRegistry().UpdateConfig(cfg.Log, logger)
	for _, p := range cfg.ChainPoints() {
		if err := r.AppendPoint(p); err != nil {
			return nil, err
		}
	}
	r.Freeze()
	if !r.Frozen() {
		return nil, errors.New("configured points did not produce any joints")
	}
	return r, nil
}

func targetsFor(cfg *config.Config, c *chain.Chain) ([]r2.Point, error) {
	var targets []r2.Point
	if cfg.TargetPath != nil {
		path, err := cfg.TargetPath.Targets()
		if err != nil {
			return nil, err
		}
		targets = append(targets, path...)
	}
	if cfg.RandomTargets > 0 {
		root, _ := c.Root()
		// sample a little past the reach so some targets are unreachable
		targets = append(targets, config.RandomTargets(cfg.RandomTargets, root, 1.2*c.Reach())...)
	}
	return targets, nil
}

// runDemo solves every target of cfg on every lane and writes the report to out.
func runDemo(ctx context.Context, cfg *config.Config, logger logging.Logger, out io.Writer) error {
	r, err := buildRunner(cfg, logger)
	if err != nil {
		return err
	}
	names := r.Lanes()
	first, err := r.Chain(names[0])
	if err != nil {
		return err
	}
	targets, err := targetsFor(cfg, first)
	if err != nil {
		return err
	}
	logger.Infow("running", "joints", first.Len(), "reach", first.Reach(), "lanes", names, "targets", len(targets))

	lanes := lo.Map(names, func(name string, _ int) *laneStats {
		return &laneStats{name: name, enabled: r.Enabled(name)}
	})
	for _, target := range targets {
		results, err := r.MoveTarget(ctx, target)
		if err != nil {
			return err
		}
		for _, ls := range lanes {
			res, ok := results[ls.name]
			if !ok {
				continue
			}
			c, err := r.Chain(ls.name)
			if err != nil {
				return err
			}
			ls.add(res, c)
		}
	}

	report, err := renderReport(lanes, len(targets))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, report)
	return err
}
