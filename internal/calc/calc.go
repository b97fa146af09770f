// Package calc runs the engines with the configured parameters and the
// catalog loader, recording metrics and logging at the boundary.
package calc

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/home265/bob-obras-sanitarias/internal/config"
	"github.com/home265/bob-obras-sanitarias/internal/metrics"
	"github.com/home265/bob-obras-sanitarias/pkg/catalog"
	"github.com/home265/bob-obras-sanitarias/pkg/drainage"
	"github.com/home265/bob-obras-sanitarias/pkg/heating"
	"github.com/home265/bob-obras-sanitarias/pkg/project"
	"github.com/home265/bob-obras-sanitarias/pkg/spec"
	"github.com/home265/bob-obras-sanitarias/pkg/validation"
	"github.com/home265/bob-obras-sanitarias/pkg/water"
)

// ErrMissingSection is returned when an installation has no section for the
// requested kind.
var ErrMissingSection = errors.New("installation has no section for this calculation")

// Runner is safe for concurrent use; the engines are pure and the loader
// guards its cache.
type Runner struct {
	catalogs *catalog.Loader
	water    water.Params
	drainage drainage.Params
	heating  heating.Params
	metrics  *metrics.Registry
	log      logrus.FieldLogger
}

// NewRunner builds a runner from the configuration. A nil registry
// disables metrics.
func NewRunner(cfg *config.Config, loader *catalog.Loader, reg *metrics.Registry, log logrus.FieldLogger) *Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{
		catalogs: loader,
		water:    cfg.Water,
		drainage: cfg.Drainage,
		heating:  cfg.Heating,
		metrics:  reg,
		log:      log,
	}
}

// Catalogs returns the loader the runner reads tables from.
func (r *Runner) Catalogs() *catalog.Loader {
	return r.catalogs
}

// Water sizes the water network.
func (r *Runner) Water(s spec.WaterSpec) *water.Result {
	start := time.Now()
	res := water.Compute(water.Input{
		Spec:     s,
		Catalogs: r.catalogs.Water(),
		Params:   r.water,
	})
	r.record(project.KindWater, res.Incomplete, len(res.Materials), len(res.Warnings), start)
	return res
}

// Drainage sizes the drainage network.
func (r *Runner) Drainage(s spec.DrainageSpec) *drainage.Result {
	start := time.Now()
	res := drainage.Compute(drainage.Input{
		Spec:     s,
		Catalogs: r.catalogs.Drainage(s.System),
		Params:   r.drainage,
	})
	r.record(project.KindDrainage, res.Incomplete, len(res.Materials), len(res.Warnings), start)
	return res
}

// Heating computes heat losses and sizes emitters and boiler.
func (r *Runner) Heating(s spec.HeatingSpec) *heating.Result {
	start := time.Now()
	res := heating.Compute(heating.Input{
		Spec:     s,
		Catalogs: r.catalogs.Heating(),
		Params:   r.heating,
	})
	r.record(project.KindHeating, res.Incomplete, len(res.Materials), len(res.Warnings), start)
	return res
}

func (r *Runner) record(kind project.Kind, incomplete bool, lines, warnings int, start time.Time) {
	elapsed := time.Since(start)
	outcome := metrics.OutcomeOK
	if incomplete {
		outcome = metrics.OutcomeIncomplete
	}
	if r.metrics != nil {
		r.metrics.RecordCalculation(string(kind), outcome, elapsed, lines)
	}
	r.log.WithFields(logrus.Fields{
		"kind":      kind,
		"outcome":   outcome,
		"materials": lines,
		"warnings":  warnings,
		"elapsed":   elapsed,
	}).Debug("calculation finished")
}

// Calculate runs the engine of the given kind on its section of s and
// packages the result for saving as a partida.
func (r *Runner) Calculate(kind project.Kind, s *spec.InstallationSpec, title string) (project.Calculation, error) {
	if strings.TrimSpace(title) == "" {
		title = s.Project.Name
	}
	switch kind {
	case project.KindWater:
		if s.Water == nil {
			return project.Calculation{}, fmt.Errorf("%s: %w", kind, ErrMissingSection)
		}
		res := r.Water(*s.Water)
		return project.NewCalculation(title, s.Water, res, res.Materials)
	case project.KindDrainage:
		if s.Drainage == nil {
			return project.Calculation{}, fmt.Errorf("%s: %w", kind, ErrMissingSection)
		}
		res := r.Drainage(*s.Drainage)
		return project.NewCalculation(title, s.Drainage, res, res.Materials)
	case project.KindHeating:
		if s.Heating == nil {
			return project.Calculation{}, fmt.Errorf("%s: %w", kind, ErrMissingSection)
		}
		res := r.Heating(*s.Heating)
		return project.NewCalculation(title, s.Heating, res, res.Materials)
	}
	return project.Calculation{}, fmt.Errorf("unknown calculation kind %q", kind)
}

// Validate runs schema and reference checks, then, when the schema is
// valid, every present engine and its analytical checks.
func (r *Runner) Validate(s *spec.InstallationSpec) *validation.Report {
	report := validation.ValidateSchema(s)
	if !report.Valid {
		if r.metrics != nil {
			r.metrics.CalculationsTotal.WithLabelValues("validate", metrics.OutcomeInvalid).Inc()
		}
		return report
	}

	system := spec.PVCGlued
	if s.Drainage != nil && s.Drainage.System != "" {
		system = s.Drainage.System
	}
	report.Merge(validation.ValidateReferences(s, r.catalogs.Set(system)))

	if s.Water != nil {
		report.Merge(validation.AnalyzeWater(r.Water(*s.Water)))
	}
	if s.Drainage != nil {
		report.Merge(validation.AnalyzeDrainage(r.Drainage(*s.Drainage)))
	}
	if s.Heating != nil {
		report.Merge(validation.AnalyzeHeating(r.Heating(*s.Heating)))
	}
	return report
}
