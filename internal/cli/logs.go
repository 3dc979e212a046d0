package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ksyq12/certdeploy/internal/output"
	"github.com/spf13/cobra"
)

var (
	logsFollow bool
	logsLines  int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the deploy trail",
	Long: `View the shared deploy log: one timestamped line per deploy step across
all lineages, the trail operators read to tell succeeded, skipped, and failed
runs apart.

Examples:
  certdeploy logs          # Last 20 lines
  certdeploy logs -n 100   # Last 100 lines
  certdeploy logs -f       # Follow in real-time`,
	RunE: runLogsCmd,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 20, "Number of lines to show")

	rootCmd.AddCommand(logsCmd)
}

func runLogsCmd(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	path := deployLogPath(settings)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		output.Info("No deploy log at %s yet", path)
		return nil
	}

	if logsFollow {
		return followLog(path)
	}

	lines, err := tailLines(path, logsLines)
	if err != nil {
		return fmt.Errorf("failed to read deploy log: %w", err)
	}
	for _, line := range lines {
		output.Print("%s", line)
	}
	return nil
}

// tailLines returns the last n lines of the file at path
func tailLines(path string, n int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// followLog hands the terminal to tail -f
func followLog(path string) error {
	tailPath, err := exec.LookPath("tail")
	if err != nil {
		return fmt.Errorf("tail command not found")
	}

	tailCmd := exec.Command(tailPath, "-f", "-n", fmt.Sprintf("%d", logsLines), path)
	tailCmd.Stdin = os.Stdin
	tailCmd.Stdout = os.Stdout
	tailCmd.Stderr = os.Stderr

	if err := tailCmd.Run(); err != nil {
		// 130 = SIGINT/Ctrl+C, 143 = SIGTERM
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			if code == 130 || code == 143 {
				return nil
			}
		}
		return fmt.Errorf("failed to read logs: %w", err)
	}
	return nil
}
