package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/planarik/logging"
)

const demoJSON = `{
	"points": [[0, 0], [1, 0], [2, 0], [3, 0]],
	"lanes": [
		{"name": "ccd", "solver": "ccd"},
		{"name": "pinv", "solver": "jacobian", "attributes": {"method": "pinv", "max_iterations": 50}}
	],
	"target_path": {"from": [3, 0], "to": [0, 3], "duration_sec": 1, "frames": 5, "easing": "${IKDEMO_EASING}"},
	"log": [{"pattern": "ikdemo.*", "level": "debug"}]
}`

func TestFromReader(t *testing.T) {
	logger := logging.NewTestLogger(t)
	cfg, err := FromReader("demo.json", strings.NewReader(strings.ReplaceAll(demoJSON, "${IKDEMO_EASING}", "linear")), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, "demo.json")
	test.That(t, cfg.Points, test.ShouldHaveLength, 4)
	test.That(t, cfg.Lanes, test.ShouldHaveLength, 2)
	test.That(t, cfg.Lanes[1].Attributes["method"], test.ShouldEqual, "pinv")
	test.That(t, cfg.TargetPath.Frames, test.ShouldEqual, 5)
	test.That(t, cfg.Log[0].Level, test.ShouldEqual, "debug")

	lanes, err := cfg.LaneConfigs()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lanes[1].Options.MaxIterations, test.ShouldEqual, 50)

	_, err = FromReader("", strings.NewReader(`{"points": [[0, 0]], "bogus": 1}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "decode")

	_, err = FromReader("", strings.NewReader(`{"points": [[0, 0]]}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "process")
}

func TestReadExpandsEnv(t *testing.T) {
	logger := logging.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "demo.json")
	test.That(t, os.WriteFile(path, []byte(demoJSON), 0o600), test.ShouldBeNil)

	t.Setenv("IKDEMO_EASING", "out-cubic")
	cfg, err := Read(path, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.TargetPath.Easing, test.ShouldEqual, "out-cubic")
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, path)

	t.Setenv("IKDEMO_EASING", "sideways")
	_, err = Read(path, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "sideways")

	_, err = Read(filepath.Join(t.TempDir(), "missing.json"), logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestWatcher(t *testing.T) {
	logger := logging.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "demo.json")
	t.Setenv("IKDEMO_EASING", "linear")
	test.That(t, os.WriteFile(path, []byte(demoJSON), 0o600), test.ShouldBeNil)

	initial, err := Read(path, logger)
	test.That(t, err, test.ShouldBeNil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	watcher, err := NewWatcher(ctx, initial, logger)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, watcher.Close(), test.ShouldBeNil)
	}()

	changed := strings.ReplaceAll(demoJSON, `"frames": 5`, `"frames": 9`)
	test.That(t, os.WriteFile(path, []byte(changed), 0o600), test.ShouldBeNil)

	select {
	case <-ctx.Done():
		t.Fatal("timed out waiting for config change")
	case cfg := <-watcher.Config():
		test.That(t, cfg.TargetPath.Frames, test.ShouldEqual, 9)
	}
}

func TestNoopWatcher(t *testing.T) {
	watcher, err := NewWatcher(context.Background(), &Config{}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, watcher.Config(), test.ShouldBeNil)
	test.That(t, watcher.Close(), test.ShouldBeNil)
}
