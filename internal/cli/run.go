package cli

import (
	"github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/hook"
	"github.com/ksyq12/certdeploy/internal/output"
	"github.com/ksyq12/certdeploy/internal/target"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [target...]",
	Short: "Push the renewed certificate to its deploy targets",
	Long: `Run the deploy hook for the lineage certbot put in the environment.

With no arguments every registered target runs in dependency order, starting
with the PKCS#12 export the API-driven targets reference. Targets without a
section in the lineage's deploy.json are skipped with success.

Wire it into certbot:
  certbot renew --deploy-hook "certdeploy run"

Examples:
  certdeploy run                  # All configured targets
  certdeploy run pkcs12           # Only the PKCS#12 export
  certdeploy run pkcs12 clearpass # An explicit selection, in order`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// runResult is the JSON report of one hook run
type runResult struct {
	Success  bool     `json:"success"`
	Lineage  string   `json:"lineage"`
	Domains  []string `json:"domains"`
	Targets  []string `json:"targets"`
	ExitCode int      `json:"exit_code"`
	Error    string   `json:"error,omitempty"`
}

func runRun(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	openDeployLog(settings)

	rc, err := renewalContext()
	if err != nil {
		return err
	}

	doc, err := loadDeployDoc(rc)
	if err != nil {
		return err
	}

	names := args
	explicit := len(args) > 0
	if !explicit {
		names = target.Order
	}
	targets, err := resolveTargets(names, targetOptions(settings), explicit)
	if err != nil {
		return err
	}

	runErr := hook.NewRunner().RunAll(rc, doc, targets)

	if jsonOutput {
		result := runResult{
			Success:  runErr == nil,
			Lineage:  rc.LineageDir,
			Domains:  rc.Domains,
			Targets:  names,
			ExitCode: errors.ExitCode(runErr),
		}
		if runErr != nil {
			result.Error = runErr.Error()
		}
		if err := output.JSON(result); err != nil {
			return err
		}
		return runErr
	}

	if runErr != nil {
		return runErr
	}
	output.Success("Deploy complete for %s", rc.FirstDomain())
	return nil
}
