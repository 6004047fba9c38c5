package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/planarik/chain"
	"go.viam.com/planarik/ik"
)

// laneStats accumulates the results of one lane over every target of a run.
type laneStats struct {
	name       string
	enabled    bool
	elapsedMs  stats.Float64Data
	iterations stats.Float64Data
	distances  stats.Float64Data
	converged  int
	maxDrift   float64
}

func (ls *laneStats) add(res *ik.Result, c *chain.Chain) {
	ls.elapsedMs = append(ls.elapsedMs, float64(res.Elapsed)/float64(time.Millisecond))
	ls.iterations = append(ls.iterations, float64(res.Iterations))
	ls.distances = append(ls.distances, res.Distance)
	if res.Converged {
		ls.converged++
	}
	if d := c.LengthDrift(); d > ls.maxDrift {
		ls.maxDrift = d
	}
}

type laneSummary struct {
	meanIterations float64
	meanMs         float64
	medianMs       float64
	p95Ms          float64
	meanDistance   float64
	maxDistance    float64
}

func (ls *laneStats) summarize() (laneSummary, error) {
	var (
		s    laneSummary
		errs error
	)
	collect := func(v float64, err error) float64 {
		errs = multierr.Combine(errs, err)
		return v
	}
	s.meanIterations = collect(ls.iterations.Mean())
	s.meanMs = collect(ls.elapsedMs.Mean())
	s.medianMs = collect(ls.elapsedMs.Median())
	s.p95Ms = collect(ls.elapsedMs.Percentile(95))
	s.meanDistance = collect(ls.distances.Mean())
	s.maxDistance = collect(ls.distances.Max())
	if errs != nil {
		return laneSummary{}, errors.Wrapf(errs, "summarizing lane %q", ls.name)
	}
	return s, nil
}

// renderReport prints a table with one row per lane.
func renderReport(lanes []*laneStats, targets int) (string, error) {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%d targets", targets))
	t.AppendHeader(table.Row{
		"Lane", "Converged", "Mean Iter", "Mean ms", "Median ms", "P95 ms", "Mean Dist", "Max Dist", "Max Drift",
	})
	for _, ls := range lanes {
		if !ls.enabled {
			t.AppendRow(table.Row{ls.name, "disabled"})
			continue
		}
		if len(ls.iterations) == 0 {
			t.AppendRow(table.Row{ls.name, "0/0"})
			continue
		}
		s, err := ls.summarize()
		if err != nil {
			return "", err
		}
		t.AppendRow(table.Row{
			ls.name,
			fmt.Sprintf("%d/%d", ls.converged, len(ls.iterations)),
			fmt.Sprintf("%.1f", s.meanIterations),
			fmt.Sprintf("%.3f", s.meanMs),
			fmt.Sprintf("%.3f", s.medianMs),
			fmt.Sprintf("%.3f", s.p95Ms),
			fmt.Sprintf("%.4f", s.meanDistance),
			fmt.Sprintf("%.4f", s.maxDistance),
			fmt.Sprintf("%.2g", ls.maxDrift),
		})
	}
	return t.Render(), nil
}
