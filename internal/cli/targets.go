package cli

import (
	"path/filepath"
	"strings"

	"github.com/ksyq12/certdeploy/internal/deployconf"
	"github.com/ksyq12/certdeploy/internal/output"
	"github.com/ksyq12/certdeploy/internal/target"
	"github.com/spf13/cobra"
)

var targetsLineage string

var targetsCmd = &cobra.Command{
	Use:     "targets",
	Aliases: []string{"ls"},
	Short:   "List deploy targets",
	Long: `List the registered deploy targets and, when run under certbot or with the
renewal environment set, whether each one is configured in the lineage's
deploy.json. A lineage directory can also be named explicitly.

Examples:
  certdeploy targets
  certdeploy targets --lineage /etc/letsencrypt/live/a.example.org
  certdeploy targets --json`,
	RunE: runTargets,
}

func init() {
	targetsCmd.Flags().StringVar(&targetsLineage, "lineage", "", "lineage directory to read deploy.json from")
	rootCmd.AddCommand(targetsCmd)
}

type targetListItem struct {
	Name       string   `json:"name"`
	Section    string   `json:"section"`
	Required   []string `json:"required"`
	Configured string   `json:"configured"` // "yes", "no", or "-" without a lineage
}

func runTargets(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	opts := targetOptions(settings)

	// The lineage is optional here: without one, configured status is unknown.
	configured := func(key string) string { return "-" }
	if targetsLineage != "" {
		doc, err := deployconf.Load(filepath.Join(targetsLineage, "deploy.json"))
		if err != nil {
			return err
		}
		configured = func(key string) string {
			if doc.Has(key) {
				return "yes"
			}
			return "no"
		}
	} else if rc, err := renewalContext(); err == nil {
		if doc, err := loadDeployDoc(rc); err == nil {
			configured = func(key string) string {
				if doc.Has(key) {
					return "yes"
				}
				return "no"
			}
		}
	}

	items := make([]targetListItem, 0)
	for _, name := range deps.Targets.Available() {
		tgt, ok := deps.Targets.Get(name, opts)
		if !ok {
			continue
		}
		items = append(items, targetListItem{
			Name:       tgt.Name(),
			Section:    tgt.Key(),
			Required:   tgt.Required(),
			Configured: configured(tgt.Key()),
		})
	}

	if jsonOutput {
		return output.JSON(items)
	}

	if len(items) == 0 {
		output.Info("No deploy targets registered")
		return nil
	}

	headers := []string{"TARGET", "SECTION", "CONFIGURED", "REQUIRED KEYS"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Name,
			item.Section,
			item.Configured,
			strings.Join(item.Required, ", "),
		})
	}
	output.Table(headers, rows)

	// Order differs from the alphabetical listing above.
	output.Print("")
	output.Info("Run order: %s", strings.Join(target.Order, ", "))
	return nil
}
