package cli

import (
	"fmt"
	"net/http"

	"github.com/ksyq12/certdeploy/internal/config"
	"github.com/ksyq12/certdeploy/internal/deployconf"
	"github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/logger"
	"github.com/ksyq12/certdeploy/internal/platform"
	"github.com/ksyq12/certdeploy/internal/renewal"
	"github.com/ksyq12/certdeploy/internal/target"
)

// renewalContext builds the renewal context from the certbot environment
func renewalContext() (*renewal.Context, error) {
	return renewal.New(
		deps.Env.Getenv(renewal.EnvDomains),
		deps.Env.Getenv(renewal.EnvLineage),
	)
}

// loadSettings loads the tool settings, mapping failure to an init error
func loadSettings() (*config.Settings, error) {
	settings, err := deps.SettingsLoader.Load()
	if err != nil {
		return nil, errors.Init("failed to load settings", err)
	}
	return settings, nil
}

// loadDeployDoc loads the lineage's deploy.json sidecar
func loadDeployDoc(rc *renewal.Context) (*deployconf.Document, error) {
	return deployconf.Load(rc.DeployConfigPath())
}

// deployLogPath returns the effective deploy log location
func deployLogPath(s *config.Settings) string {
	if s.LogFile != "" {
		return s.LogFile
	}
	return platform.DefaultLogFile()
}

// openDeployLog attaches the shared deploy log. A failed open is only a
// warning: the trail still goes to stdout for the invoking certbot process.
func openDeployLog(s *config.Settings) {
	if err := logger.OpenDeployLog(deployLogPath(s)); err != nil {
		logger.Warn("deploy log unavailable: %v", err)
	}
}

// targetOptions builds the runtime options targets are constructed with
func targetOptions(s *config.Settings) target.Options {
	return target.Options{
		HTTPClient:   httpClient(s),
		FanoutPolicy: s.FanoutPolicy,
		Exec:         deps.Executor,
	}
}

// httpClient returns a client honoring the configured timeout.
// Nil keeps the transport default.
func httpClient(s *config.Settings) *http.Client {
	if s.HTTPTimeout() > 0 {
		return &http.Client{Timeout: s.HTTPTimeout()}
	}
	return nil
}

// resolveTargets builds the named targets. explicit marks a user-supplied
// selection, where an unknown name is an error; the default run order
// tolerates names the resolver does not serve.
func resolveTargets(names []string, opts target.Options, explicit bool) ([]target.Target, error) {
	targets := make([]target.Target, 0, len(names))
	for _, name := range names {
		tgt, ok := deps.Targets.Get(name, opts)
		if !ok {
			if explicit {
				return nil, errors.Init(fmt.Sprintf("unknown target: %s (available: %v)", name, deps.Targets.Available()), nil)
			}
			logger.Debug("target %s not available, skipping", name)
			continue
		}
		targets = append(targets, tgt)
	}
	return targets, nil
}
