// Package main is a headless driver for the planar IK solvers. It builds a
// chain from the configured points, sweeps a target along a path or through
// random points, solves every lane for each target and prints a comparison.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/planarik/config"
	"go.viam.com/planarik/logging"
)

const (
	flagConfig  = "config"
	flagDebug   = "debug"
	flagLogFile = "log-file"
	flagWatch   = "watch"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	logger := logging.NewLogger("ikdemo")
	var logFile io.Closer

	readConfig := func(c *cli.Context) (*config.Config, error) {
		path := c.String(flagConfig)
		if path == "" {
			return nil, errors.New("need a config file, pass --config")
		}
		logger.Infof("reading config from %s", path)
		cfg, err := config.Read(path, logger)
		if err != nil {
			return nil, err
		}
		config.UpdateFileConfigDebug(cfg.Debug)
		return cfg, nil
	}

	return &cli.App{
		Name:      "ikdemo",
		Usage:     "compare planar inverse kinematics solvers",
		Version:   config.Version,
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "also write logs to `FILE`, rotated by size",
			},
		},
		Before: func(c *cli.Context) error {
			if path := c.String(flagLogFile); path != "" {
				logger, logFile = logging.NewFileLogger("ikdemo", path)
			}
			config.InitLoggingSettings(logger, c.Bool(flagDebug))
			return nil
		},
		After: func(c *cli.Context) error {
			if logFile == nil {
				return nil
			}
			return logFile.Close()
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "solve every target of the config and print a report",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  flagWatch,
						Usage: "run again whenever the config file changes",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := readConfig(c)
					if err != nil {
						return err
					}
					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					if err := runDemo(ctx, cfg, logger, c.App.Writer); err != nil {
						return err
					}
					if !c.Bool(flagWatch) {
						return nil
					}
					return watchAndRun(ctx, cfg, logger, c.App.Writer)
				},
			},
			{
				Name:  "chain",
				Usage: "print the chain built from the configured points",
				Action: func(c *cli.Context) error {
					cfg, err := readConfig(c)
					if err != nil {
						return err
					}
					ch, err := buildChain(cfg)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(c.App.Writer, ch.String())
					return err
				},
			},
			{
				Name:  "schema",
				Usage: "print the JSON schema of the config file",
				Action: func(c *cli.Context) error {
					out, err := config.SchemaJSON()
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(c.App.Writer, string(out))
					return err
				},
			},
		},
	}
}

func watchAndRun(ctx context.Context, cfg *config.Config, logger logging.Logger, out io.Writer) error {
	watcher, err := config.NewWatcher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Errorw("error closing config watcher", "error", err)
		}
	}()
	logger.Infof("watching %s for changes", cfg.ConfigFilePath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case newCfg := <-watcher.Config():
			config.UpdateFileConfigDebug(newCfg.Debug)
			if err := runDemo(ctx, newCfg, logger, out); err != nil {
				logger.Errorw("run failed", "error", err)
			}
		}
	}
}
