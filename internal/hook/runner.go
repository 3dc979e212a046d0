// Package hook implements the shared run contract every deploy target goes
// through: applicability check, all-or-nothing required-key validation,
// dispatch, and a timestamped outcome trail.
//
// The contract, in order:
//
//  1. Preconditions (lineage path, domain list) are validated before any
//     other work by the renewal package; the runner assumes a valid Context.
//  2. A target whose top-level key is absent from deploy.json is skipped
//     with success, logged distinctly from both success and failure.
//  3. Every required key path is checked and ALL missing paths are reported
//     in one error, never fail-fast.
//  4. Only then does the target's Deploy run.
//
// Errors are never recovered locally: a run either completes its action or
// fails outright, reported through the exit code and the deploy trail.
package hook

import (
	"github.com/ksyq12/certdeploy/internal/deployconf"
	"github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/logger"
	"github.com/ksyq12/certdeploy/internal/renewal"
	"github.com/ksyq12/certdeploy/internal/target"
)

// Runner executes deploy targets against one renewal lineage.
type Runner struct{}

// NewRunner creates a Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes one target under the shared contract. A target not
// configured for this lineage returns nil (soft skip); so does a target
// that reports its own skip condition from Deploy.
func (r *Runner) Run(rc *renewal.Context, doc *deployconf.Document, tgt target.Target) error {
	name := tgt.Name()

	if !doc.Has(tgt.Key()) {
		logger.Step("%s: not configured for %s, skipping", name, rc.FirstDomain())
		return nil
	}

	if err := doc.Require(name, tgt.Required()); err != nil {
		logger.StepError("%s: %v", name, err)
		return err
	}

	logger.Step("%s: deploying certificate for %s", name, rc.FirstDomain())
	if err := tgt.Deploy(rc, doc); err != nil {
		if errors.IsSkip(err) {
			// Deploy already logged the skip reason.
			return nil
		}
		logger.StepError("%s: deploy failed: %v", name, err)
		return err
	}

	logger.Step("%s: deploy complete for %s", name, rc.FirstDomain())
	return nil
}

// RunAll executes targets in the given order. Failures do not stop later
// targets, with one exception: a failed pkcs12 export aborts the chain,
// because the remaining targets would push a stale or missing bundle. The
// returned error is the one with the worst exit code.
func (r *Runner) RunAll(rc *renewal.Context, doc *deployconf.Document, targets []target.Target) error {
	var worst error
	for _, tgt := range targets {
		err := r.Run(rc, doc, tgt)
		if err != nil && errors.ExitCode(err) >= errors.ExitCode(worst) {
			worst = err
		}
		if err != nil && tgt.Name() == "pkcs12" {
			logger.StepError("aborting remaining targets: pkcs12 export failed")
			break
		}
	}
	return worst
}
