// Package sweep sequences the two removal phases: uninstalling matching
// MSI-installed products, then scrubbing their stale Security Center
// registrations.
package sweep

import (
	"context"
	"errors"
	"fmt"

	"github.com/lanternops/avsweep/internal/logging"
	"github.com/lanternops/avsweep/internal/match"
	"github.com/lanternops/avsweep/internal/msiexec"
	"github.com/lanternops/avsweep/internal/products"
	"github.com/lanternops/avsweep/internal/seccenter"
)

var log = logging.L("sweep")

const (
	phaseUninstall    = "uninstall"
	phaseRegistration = "registration-cleanup"
)

// ProgressFunc receives batch progress updates. Percent is cosmetic: it is
// accumulated additively per item and may drift slightly from round values.
type ProgressFunc func(phase string, percent float64, displayName string)

// Rebooter triggers a host restart. Fire-and-forget.
type Rebooter interface {
	Restart() error
}

// Options carries every caller preference explicitly; nothing is read from
// ambient state.
type Options struct {
	Pattern                 string
	SkipUninstall           bool
	SkipRegistrationCleanup bool
	SkipReboot              bool
	DryRun                  bool
	Progress                ProgressFunc
}

// Result is the aggregate outcome of one run. Success starts true and is
// permanently cleared by the first failed uninstall or registration removal.
// RebootNeeded is set by any uninstall reporting a reboot-implying exit code.
type Result struct {
	Success       bool
	RebootNeeded  bool
	DiscoveryErrs []error
}

// Sweeper runs the removal phases against its collaborators.
type Sweeper struct {
	products      products.Store
	runner        msiexec.Runner
	registrations seccenter.Store
	rebooter      Rebooter
	opts          Options
	matcher       *match.Matcher
}

// New wires a Sweeper with the production collaborators.
func New(opts Options) (*Sweeper, error) {
	return NewWith(opts, products.NewStore(), msiexec.NewRunner(), seccenter.NewStore(), newRebooter())
}

// NewWith wires a Sweeper with explicit collaborators.
func NewWith(opts Options, ps products.Store, r msiexec.Runner, ss seccenter.Store, rb Rebooter) (*Sweeper, error) {
	m, err := match.Compile(opts.Pattern)
	if err != nil {
		return nil, err
	}

	return &Sweeper{
		products:      ps,
		runner:        r,
		registrations: ss,
		rebooter:      rb,
		opts:          opts,
		matcher:       m,
	}, nil
}

// Run executes both phases in order, then the reboot decision. Individual
// item failures never abort the batch; a store-query failure aborts only its
// own phase. Phases are independently skippable.
func (s *Sweeper) Run(ctx context.Context) Result {
	res := Result{Success: true}

	if s.opts.SkipUninstall {
		log.Info("uninstall phase skipped by request")
	} else {
		s.runUninstallPhase(ctx, &res)
	}

	if s.opts.SkipRegistrationCleanup {
		log.Info("registration cleanup skipped by request")
	} else {
		s.runRegistrationPhase(&res)
	}

	s.decideReboot(&res)
	return res
}

func (s *Sweeper) runUninstallPhase(ctx context.Context, res *Result) {
	all, err := s.products.Enumerate()
	if err != nil {
		log.Error("installed-product query failed, skipping uninstall phase", logging.KeyError, err)
		res.DiscoveryErrs = append(res.DiscoveryErrs, fmt.Errorf("installed-product query: %w", err))
		return
	}

	candidates := products.Filter(all, s.matcher)
	if len(candidates) == 0 {
		log.Info("no installed products match", "pattern", s.opts.Pattern)
		return
	}

	step := 100.0 / float64(len(candidates))
	percent := 0.0
	for _, c := range candidates {
		s.report(phaseUninstall, percent, c.DisplayName)
		s.uninstallOne(ctx, c, res)
		percent += step
	}
	s.report(phaseUninstall, percent, "")
}

func (s *Sweeper) uninstallOne(ctx context.Context, c products.Candidate, res *Result) {
	desc := fmt.Sprintf("uninstall %q (product code %s)", c.DisplayName, c.ProductCode)
	s.perform(desc, func() {
		code, err := s.runner.Uninstall(ctx, c)
		if err != nil {
			log.Error("uninstaller did not run", "product", c.DisplayName, "productCode", c.ProductCode, logging.KeyError, err)
			res.Success = false
			return
		}

		class := msiexec.Classify(code)
		if !class.Succeeded() {
			log.Error("uninstall failed", "product", c.DisplayName, "productCode", c.ProductCode, "exitCode", code)
			res.Success = false
			return
		}
		if class.RebootNeeded() {
			res.RebootNeeded = true
		}
		log.Info("uninstalled", "product", c.DisplayName, "exitCode", code, "class", class.String())
	})
}

func (s *Sweeper) runRegistrationPhase(res *Result) {
	all, err := s.registrations.Enumerate()
	if err != nil {
		log.Error("security center query failed, skipping registration cleanup", logging.KeyError, err)
		res.DiscoveryErrs = append(res.DiscoveryErrs, fmt.Errorf("security center query: %w", err))
		return
	}

	entries := seccenter.Filter(all, s.matcher)
	if len(entries) == 0 {
		log.Info("no security center registrations match", "pattern", s.opts.Pattern)
		return
	}

	step := 100.0 / float64(len(entries))
	percent := 0.0
	for _, reg := range entries {
		s.report(phaseRegistration, percent, reg.DisplayName)
		s.removeOne(reg, res)
		percent += step
	}
	s.report(phaseRegistration, percent, "")
}

func (s *Sweeper) removeOne(reg seccenter.Registration, res *Result) {
	desc := fmt.Sprintf("remove security center registration %q (%s)", reg.DisplayName, reg.InstanceGUID)
	s.perform(desc, func() {
		job := s.registrations.RemoveAsync(reg.InstanceGUID)
		if state := job.Wait(); state != seccenter.JobCompleted {
			log.Error("registration removal failed",
				"product", reg.DisplayName, "instanceGuid", reg.InstanceGUID,
				"state", state.String(), logging.KeyError, job.Err())
			res.Success = false
			return
		}
		log.Info("registration removed", "product", reg.DisplayName)
	})
}

func (s *Sweeper) decideReboot(res *Result) {
	if !res.RebootNeeded {
		return
	}
	if s.opts.SkipReboot {
		log.Warn("a reboot is required to finish removal, but reboot was suppressed")
		return
	}

	s.perform("restart the host", func() {
		log.Info("restarting host to finish removal")
		if err := s.rebooter.Restart(); err != nil {
			log.Error("restart request failed", logging.KeyError, err)
		}
	})
}

// perform gates a mutating action behind dry-run: the action is described and
// skipped, counting as neither success nor failure.
func (s *Sweeper) perform(desc string, action func()) {
	if s.opts.DryRun {
		log.Info("dry-run: would " + desc)
		return
	}
	action()
}

func (s *Sweeper) report(phase string, percent float64, displayName string) {
	if percent > 100 {
		percent = 100
	}
	if s.opts.Progress != nil {
		s.opts.Progress(phase, percent, displayName)
		return
	}
	log.Info("progress", "phase", phase, "percent", fmt.Sprintf("%.0f%%", percent), "product", displayName)
}

// Discover returns the uninstall candidates and registrations the pattern
// selects, without removing anything. Store failures are joined so a partial
// listing still comes back alongside the error.
func (s *Sweeper) Discover() ([]products.Candidate, []seccenter.Registration, error) {
	var errs []error

	allProducts, err := s.products.Enumerate()
	if err != nil {
		errs = append(errs, fmt.Errorf("installed-product query: %w", err))
	}
	allRegs, err := s.registrations.Enumerate()
	if err != nil {
		errs = append(errs, fmt.Errorf("security center query: %w", err))
	}

	return products.Filter(allProducts, s.matcher), seccenter.Filter(allRegs, s.matcher), errors.Join(errs...)
}
