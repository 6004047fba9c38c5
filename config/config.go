// Package config defines the JSON configuration of the ikdemo driver: the
// points a chain is built from, the solver lanes to compare, and the targets
// to solve for.
package config

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.viam.com/utils"

	"go.viam.com/planarik/ik"
	"go.viam.com/planarik/logging"
)

// A Config describes one demo run.
type Config struct {
	// Points are clicked out in order; the first is the root.
	Points [][2]float64 `json:"points"`
	// Lanes to run. When empty, the ccd, jacobian-transpose and jacobian-pinv lanes are used.
	Lanes         []LaneConfig                  `json:"lanes,omitempty"`
	TargetPath    *TargetPath                   `json:"target_path,omitempty"`
	RandomTargets int                           `json:"random_targets,omitempty"`
	Debug         bool                          `json:"debug,omitempty"`
	Log           []logging.LoggerPatternConfig `json:"log,omitempty"`

	ConfigFilePath string `json:"-"`
}

// LaneConfig configures one solver lane.
type LaneConfig struct {
	Name   string `json:"name"`
	Solver string `json:"solver"`
	// Enabled defaults to true.
	Enabled    *bool                  `json:"enabled,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Validate checks the lane, decodes its attributes and builds its solver once
// so that unknown solver kinds are rejected at load time.
func (lc LaneConfig) Validate(path string) error {
	if lc.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if lc.Solver == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "solver")
	}
	opts, err := lc.Options()
	if err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	if err := opts.Validate(path + ".attributes"); err != nil {
		return err
	}
	if _, err := ik.NewSolver(lc.Solver, opts, logging.NewBlankLogger(lc.Name)); err != nil {
		return utils.NewConfigValidationError(path+".solver", err)
	}
	return nil
}

// Options decodes the lane attributes on top of the solver's defaults.
func (lc LaneConfig) Options() (ik.Options, error) {
	return ik.DecodeOptions(lc.Attributes, ik.DefaultOptionsFor(lc.Solver))
}

// IsEnabled reports whether the lane solves from the start.
func (lc LaneConfig) IsEnabled() bool {
	return lc.Enabled == nil || *lc.Enabled
}

// Ensure validates every part of the config.
func (c *Config) Ensure() error {
	if len(c.Points) < 2 {
		return utils.NewConfigValidationError("points", errors.New("need at least two points to build a joint"))
	}
	for idx := 0; idx < len(c.Lanes); idx++ {
		if err := c.Lanes[idx].Validate(fmt.Sprintf("%s.%d", "lanes", idx)); err != nil {
			return err
		}
	}
	if dups := lo.FindDuplicatesBy(c.Lanes, func(lc LaneConfig) string { return lc.Name }); len(dups) > 0 {
		return utils.NewConfigValidationError("lanes", errors.Errorf("lane name %q is not unique", dups[0].Name))
	}
	if c.TargetPath != nil {
		if err := c.TargetPath.Validate("target_path"); err != nil {
			return err
		}
	}
	if c.RandomTargets < 0 {
		return utils.NewConfigValidationError("random_targets", errors.Errorf("must be non-negative, got %d", c.RandomTargets))
	}
	if c.TargetPath == nil && c.RandomTargets == 0 {
		return utils.NewConfigValidationError("target_path", errors.New("one of target_path or random_targets is required"))
	}
	for idx, lpc := range c.Log {
		if err := lpc.Validate(fmt.Sprintf("%s.%d", "log", idx)); err != nil {
			return err
		}
	}
	return nil
}

// ChainPoints returns Points as world-space points.
func (c *Config) ChainPoints() []r2.Point {
	return lo.Map(c.Points, func(p [2]float64, _ int) r2.Point { return r2.Point{X: p[0], Y: p[1]} })
}

// LaneConfigs converts the lanes into runner lane configs, falling back to the default lanes.
func (c *Config) LaneConfigs() ([]ik.LaneConfig, error) {
	lanes := c.Lanes
	if len(lanes) == 0 {
		lanes = lo.Map([]string{ik.KindCCD, ik.KindJacobianTranspose, ik.KindJacobianPinv},
			func(kind string, _ int) LaneConfig { return LaneConfig{Name: kind, Solver: kind} })
	}
	out := make([]ik.LaneConfig, 0, len(lanes))
	for _, lc := range lanes {
		opts, err := lc.Options()
		if err != nil {
			return nil, errors.Wrapf(err, "lane %q", lc.Name)
		}
		out = append(out, ik.LaneConfig{
			Name:    lc.Name,
			Kind:    lc.Solver,
			Options: opts,
			Enabled: lc.IsEnabled(),
		})
	}
	return out, nil
}
