package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/certdeploy/internal/input"
	"github.com/ksyq12/certdeploy/internal/output"
	"github.com/ksyq12/certdeploy/internal/renewal"
	"github.com/ksyq12/certdeploy/internal/target"
	"github.com/ksyq12/certdeploy/internal/template"
	"github.com/spf13/cobra"
)

var (
	initTargets []string
	initForce   bool
)

var initCmd = &cobra.Command{
	Use:   "init [lineage-dir]",
	Short: "Create a deploy.json skeleton for a lineage",
	Long: `Create a deploy.json skeleton in a certbot lineage directory.

The lineage directory comes from the argument or from RENEWED_LINEAGE. Target
sections are selected interactively, or up front with --targets. The generated
file carries placeholder values to edit before the next renewal fires.

Examples:
  certdeploy init /etc/letsencrypt/live/a.example.org
  certdeploy init /etc/letsencrypt/live/a.example.org --targets pkcs12,technitium
  certdeploy init --targets pkcs12 --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringSliceVar(&initTargets, "targets", nil, "Comma-separated targets to include (skips prompts)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing deploy.json without asking")

	rootCmd.AddCommand(initCmd)
}

// initResult is the JSON report of a generated skeleton
type initResult struct {
	Success bool     `json:"success"`
	Path    string   `json:"path"`
	Domain  string   `json:"domain"`
	Targets []string `json:"targets"`
}

func runInit(cmd *cobra.Command, args []string) error {
	lineageDir := deps.Env.Getenv(renewal.EnvLineage)
	if len(args) > 0 {
		lineageDir = args[0]
	}
	if lineageDir == "" {
		return fmt.Errorf("lineage directory required (argument or %s)", renewal.EnvLineage)
	}

	domain, err := initDomain(lineageDir)
	if err != nil {
		return err
	}

	names, err := initSelection()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no targets selected")
	}

	content, err := template.Skeleton(domain, names)
	if err != nil {
		return err
	}

	path := filepath.Join(lineageDir, renewal.DeployFile)
	if _, err := os.Stat(path); err == nil && !initForce {
		overwrite, err := input.Confirm(deps.StdinReader, os.Stdout,
			fmt.Sprintf("%s exists, overwrite", path), false)
		if err != nil {
			return err
		}
		if !overwrite {
			output.Info("Keeping existing %s", path)
			return nil
		}
	}

	// Holds downstream credentials once targets fill it in.
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if jsonOutput {
		return output.JSON(initResult{Success: true, Path: path, Domain: domain, Targets: names})
	}
	output.Success("Wrote %s", path)
	output.Info("Edit the placeholder values before the next renewal")
	return nil
}

// initDomain resolves the primary domain: the renewal environment when
// present, otherwise a prompt defaulting to the lineage directory name.
func initDomain(lineageDir string) (string, error) {
	if domains := strings.Fields(deps.Env.Getenv(renewal.EnvDomains)); len(domains) > 0 {
		return domains[0], nil
	}
	return input.Ask(deps.StdinReader, os.Stdout, "Primary domain", filepath.Base(lineageDir))
}

// initSelection returns the target sections to generate, from --targets or
// one prompt per target in run order.
func initSelection() ([]string, error) {
	if len(initTargets) > 0 {
		return initTargets, nil
	}

	names := make([]string, 0, len(target.Order))
	for _, name := range target.Order {
		// Everything else references the export, so it defaults to yes.
		selected, err := input.Confirm(deps.StdinReader, os.Stdout,
			fmt.Sprintf("Configure %s", name), name == "pkcs12")
		if err != nil {
			return nil, err
		}
		if selected {
			names = append(names, name)
		}
	}
	return names, nil
}
