package cli

import (
	"os"

	"github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/logger"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "certdeploy",
	Short: "Certbot deploy hook for downstream certificate consumers",
	Long: `certdeploy pushes renewed certificates to the services that consume them.

Wired as a certbot deploy hook, it reads the renewal context from the
RENEWED_DOMAINS and RENEWED_LINEAGE environment variables and the per-lineage
deploy.json sidecar, then runs every configured deploy target: PKCS#12 export,
Technitium DNS, ClearPass, block-page file install, and generic rsync.

The exit code reports the outcome to certbot: 0 on success or skip, 1 for
initialization problems, 2 for missing configuration keys, 3 for upstream
failures.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits with the deploy-hook code.
func Execute() {
	// Initialize logger based on verbose flag (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(errors.ExitCode(err))
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
}
