package cli

import (
	"fmt"
	"os"

	"github.com/ksyq12/certdeploy/internal/config"
	"github.com/ksyq12/certdeploy/internal/output"
	"github.com/ksyq12/certdeploy/internal/platform"
	"github.com/ksyq12/certdeploy/internal/renewal"
	"github.com/ksyq12/certdeploy/internal/target"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check hook setup and diagnose issues",
	Long: `Run diagnostic checks on the deploy hook setup.

Checks:
  - Renewal environment (RENEWED_DOMAINS, RENEWED_LINEAGE)
  - Lineage certificate files and deploy.json validity
  - Required keys for every configured target
  - Tool settings and deploy log
  - Helper binaries (rsync, ssh, systemctl, service)

Examples:
  certdeploy doctor
  certdeploy doctor --json`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	Environment []CheckResult `json:"environment"`
	Lineage     []CheckResult `json:"lineage"`
	Tooling     []CheckResult `json:"tooling"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	report := &DoctorReport{}
	report.Environment = checkEnvironment()
	report.Lineage = checkLineage()
	report.Tooling = checkTooling()

	if jsonOutput {
		return output.JSON(report)
	}

	displayDoctorResults(report)
	return nil
}

func checkEnvironment() []CheckResult {
	results := []CheckResult{}

	for _, env := range []string{renewal.EnvDomains, renewal.EnvLineage} {
		if deps.Env.Getenv(env) != "" {
			results = append(results, CheckResult{
				Status:  "success",
				Message: fmt.Sprintf("%s is set", env),
			})
		} else {
			results = append(results, CheckResult{
				Status:  "warning",
				Message: fmt.Sprintf("%s not set (normal outside a certbot renewal)", env),
			})
		}
	}

	return results
}

func checkLineage() []CheckResult {
	results := []CheckResult{}

	rc, err := renewalContext()
	if err != nil {
		results = append(results, CheckResult{
			Status:  "warning",
			Message: "no renewal context, skipping lineage checks",
		})
		return results
	}

	for _, path := range []string{rc.CertPath(), rc.ChainPath(), rc.FullchainPath(), rc.KeyPath()} {
		if _, err := os.Stat(path); err == nil {
			results = append(results, CheckResult{
				Status:  "success",
				Message: fmt.Sprintf("%s exists", path),
			})
		} else {
			results = append(results, CheckResult{
				Status:  "error",
				Message: fmt.Sprintf("%s missing", path),
			})
		}
	}

	if _, err := os.Stat(rc.DeployConfigPath()); os.IsNotExist(err) {
		results = append(results, CheckResult{
			Status:  "warning",
			Message: fmt.Sprintf("no deploy.json in %s, nothing will deploy", rc.LineageDir),
		})
		return results
	}
	doc, err := loadDeployDoc(rc)
	if err != nil {
		results = append(results, CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("deploy.json unusable: %v", err),
		})
		return results
	}
	results = append(results, CheckResult{
		Status:  "success",
		Message: "deploy.json parses",
	})

	// Match sections to targets and validate required keys per configured
	// target, the same check the hook runs before deploying.
	byKey := make(map[string]target.Target)
	opts := target.Options{Exec: deps.Executor}
	for _, name := range deps.Targets.Available() {
		if tgt, ok := deps.Targets.Get(name, opts); ok {
			byKey[tgt.Key()] = tgt
		}
	}

	for _, section := range doc.Sections() {
		tgt, ok := byKey[section]
		if !ok {
			results = append(results, CheckResult{
				Status:  "warning",
				Message: fmt.Sprintf("section %q matches no target", section),
			})
			continue
		}
		if err := doc.Require(tgt.Name(), tgt.Required()); err != nil {
			results = append(results, CheckResult{
				Status:  "error",
				Message: err.Error(),
			})
		} else {
			results = append(results, CheckResult{
				Status:  "success",
				Message: fmt.Sprintf("%s configured completely", tgt.Name()),
			})
		}
	}

	return results
}

func checkTooling() []CheckResult {
	results := []CheckResult{}

	settings, err := deps.SettingsLoader.Load()
	if err != nil {
		results = append(results, CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("settings unusable: %v", err),
		})
		settings = config.New()
	} else {
		results = append(results, CheckResult{
			Status:  "success",
			Message: fmt.Sprintf("settings loaded (fanout policy: %s)", settings.FanoutPolicy),
		})
	}

	logPath := deployLogPath(settings)
	if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		f.Close()
		results = append(results, CheckResult{
			Status:  "success",
			Message: fmt.Sprintf("deploy log writable (%s)", logPath),
		})
	} else {
		results = append(results, CheckResult{
			Status:  "warning",
			Message: fmt.Sprintf("deploy log not writable: %v", err),
		})
	}

	if missing := platform.MissingBinaries(deps.Executor); len(missing) > 0 {
		for _, bin := range missing {
			results = append(results, CheckResult{
				Status:  "warning",
				Message: fmt.Sprintf("%s not installed (needed by transfer targets)", bin),
			})
		}
	} else {
		results = append(results, CheckResult{
			Status:  "success",
			Message: "helper binaries installed",
		})
	}

	return results
}

func displayDoctorResults(report *DoctorReport) {
	output.Print("Checking renewal environment...")
	for _, check := range report.Environment {
		displayCheck(check)
	}
	output.Print("")

	output.Print("Checking lineage...")
	for _, check := range report.Lineage {
		displayCheck(check)
	}
	output.Print("")

	output.Print("Checking tooling...")
	for _, check := range report.Tooling {
		displayCheck(check)
	}
}

func displayCheck(check CheckResult) {
	switch check.Status {
	case "success":
		output.Success("%s", check.Message)
	case "warning":
		output.Warn("%s", check.Message)
	case "error":
		output.Error("%s", check.Message)
	}
}
