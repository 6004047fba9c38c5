package config

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/planarik/ik"
	"go.viam.com/planarik/logging"
)

func validConfig() *Config {
	return &Config{
		Points: [][2]float64{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		TargetPath: &TargetPath{
			From:        [2]float64{3, 0},
			To:          [2]float64{0, 3},
			DurationSec: 1,
			Frames:      10,
		},
	}
}

func TestEnsure(t *testing.T) {
	cfg := validConfig()
	test.That(t, cfg.Ensure(), test.ShouldBeNil)

	cfg = validConfig()
	cfg.Points = cfg.Points[:1]
	err := cfg.Ensure()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "points")

	cfg = validConfig()
	cfg.TargetPath = nil
	err = cfg.Ensure()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "random_targets")
	cfg.RandomTargets = 5
	test.That(t, cfg.Ensure(), test.ShouldBeNil)
	cfg.RandomTargets = -1
	test.That(t, cfg.Ensure(), test.ShouldNotBeNil)

	cfg = validConfig()
	cfg.Lanes = []LaneConfig{{Name: "a", Solver: ik.KindCCD}, {Solver: ik.KindCCD}}
	err = cfg.Ensure()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "lanes.1")
	test.That(t, err.Error(), test.ShouldContainSubstring, "name")

	cfg.Lanes = []LaneConfig{{Name: "a", Solver: ik.KindCCD}, {Name: "a", Solver: ik.KindJacobianPinv}}
	err = cfg.Ensure()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "not unique")

	cfg.Lanes = []LaneConfig{{Name: "a", Solver: "foo"}}
	err = cfg.Ensure()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "lanes.0.solver")
	test.That(t, errors.Is(err, ik.ErrUnknownMethod), test.ShouldBeTrue)

	cfg.Lanes = []LaneConfig{{Name: "a", Solver: ik.KindJacobian, Attributes: map[string]interface{}{"method": "cholesky"}}}
	err = cfg.Ensure()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "lanes.0")

	cfg.Lanes = []LaneConfig{{Name: "a", Solver: ik.KindCCD, Attributes: map[string]interface{}{"epsilon": -0.5}}}
	err = cfg.Ensure()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "lanes.0.attributes")

	cfg = validConfig()
	cfg.Log = []logging.LoggerPatternConfig{{Pattern: "ikdemo..ccd", Level: "debug"}}
	err = cfg.Ensure()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "log.0")
}

func TestLaneConfigs(t *testing.T) {
	cfg := validConfig()
	lanes, err := cfg.LaneConfigs()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lanes, test.ShouldHaveLength, 3)
	test.That(t, lanes[0].Name, test.ShouldEqual, "ccd")
	test.That(t, lanes[0].Options, test.ShouldResemble, ik.DefaultCCDOptions())
	test.That(t, lanes[2].Options.Method, test.ShouldEqual, ik.PseudoInverse)
	for _, l := range lanes {
		test.That(t, l.Enabled, test.ShouldBeTrue)
	}

	disabled := false
	cfg.Lanes = []LaneConfig{
		{Name: "slow", Solver: ik.KindJacobian, Enabled: &disabled, Attributes: map[string]interface{}{
			"method":        "pinv",
			"learning_rate": 0.01,
		}},
	}
	lanes, err = cfg.LaneConfigs()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lanes, test.ShouldHaveLength, 1)
	test.That(t, lanes[0].Enabled, test.ShouldBeFalse)
	test.That(t, lanes[0].Kind, test.ShouldEqual, ik.KindJacobian)
	test.That(t, lanes[0].Options.Method, test.ShouldEqual, ik.PseudoInverse)
	test.That(t, lanes[0].Options.LearningRate, test.ShouldAlmostEqual, 0.01)
	test.That(t, lanes[0].Options.MaxIterations, test.ShouldEqual, 100)

	test.That(t, cfg.ChainPoints(), test.ShouldResemble, []r2.Point{{}, {X: 1}, {X: 2}, {X: 3}})
}

func TestSchema(t *testing.T) {
	out, err := SchemaJSON()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(out), test.ShouldContainSubstring, "target_path")
	test.That(t, string(out), test.ShouldContainSubstring, "duration_sec")
	test.That(t, string(out), test.ShouldNotContainSubstring, "ConfigFilePath")
}

func TestLoggingSettings(t *testing.T) {
	logger := logging.NewBlankLogger("ikdemo")

	defer InitLoggingSettings(logger, false)

	InitLoggingSettings(logger, false)
	test.That(t, logger.GetLevel(), test.ShouldEqual, logging.INFO)
	UpdateFileConfigDebug(true)
	test.That(t, logger.GetLevel(), test.ShouldEqual, logging.DEBUG)
	test.That(t, logging.GlobalLogLevel.Get(), test.ShouldEqual, logging.DEBUG)
	UpdateFileConfigDebug(false)
	test.That(t, logger.GetLevel(), test.ShouldEqual, logging.INFO)
	test.That(t, logging.GlobalLogLevel.Get(), test.ShouldEqual, logging.INFO)

	InitLoggingSettings(logger, true)
	test.That(t, logger.GetLevel(), test.ShouldEqual, logging.DEBUG)
	UpdateFileConfigDebug(false)
	test.That(t, logger.GetLevel(), test.ShouldEqual, logging.DEBUG)
}
