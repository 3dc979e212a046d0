package cli

import (
	"testing"
	"time"

	"github.com/ksyq12/certdeploy/internal/config"
	"github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/platform"
	"github.com/ksyq12/certdeploy/internal/target"
)

func TestRenewalContext(t *testing.T) {
	t.Run("complete environment", func(t *testing.T) {
		swapDeps(t, NewMockDeps().WithEnv("a.example.org b.example.org", "/etc/letsencrypt/live/a").Build())
		rc, err := renewalContext()
		if err != nil {
			t.Fatalf("renewalContext failed: %v", err)
		}
		if rc.FirstDomain() != "a.example.org" {
			t.Errorf("first domain = %q", rc.FirstDomain())
		}
	})

	t.Run("missing lineage", func(t *testing.T) {
		swapDeps(t, NewMockDeps().WithEnv("a.example.org", "").Build())
		_, err := renewalContext()
		if errors.ExitCode(err) != 1 {
			t.Errorf("missing lineage must exit 1, got %d (%v)", errors.ExitCode(err), err)
		}
	})

	t.Run("missing domains", func(t *testing.T) {
		swapDeps(t, NewMockDeps().WithEnv("", "/etc/letsencrypt/live/a").Build())
		if _, err := renewalContext(); !errors.Is(err, errors.ErrNoDomains) {
			t.Errorf("expected ErrNoDomains, got %v", err)
		}
	})
}

func TestHTTPClient(t *testing.T) {
	s := config.New()
	if httpClient(s) != nil {
		t.Error("no configured timeout must keep the transport default")
	}

	s.HTTPTimeoutSeconds = 15
	client := httpClient(s)
	if client == nil || client.Timeout != 15*time.Second {
		t.Errorf("client timeout not applied: %+v", client)
	}
}

func TestDeployLogPath(t *testing.T) {
	s := config.New()
	if got := deployLogPath(s); got != platform.DefaultLogFile() {
		t.Errorf("empty log_file must use the platform default, got %q", got)
	}

	s.LogFile = "/tmp/custom.log"
	if got := deployLogPath(s); got != "/tmp/custom.log" {
		t.Errorf("configured log_file ignored, got %q", got)
	}
}

func TestResolveTargets(t *testing.T) {
	mock := &target.MockTarget{}
	swapDeps(t, NewMockDeps().WithTarget(mock).Build())

	t.Run("explicit unknown is an error", func(t *testing.T) {
		_, err := resolveTargets([]string{"mock", "nope"}, target.Options{}, true)
		if errors.ExitCode(err) != 1 {
			t.Errorf("unknown explicit target must exit 1, got %v", err)
		}
	})

	t.Run("default order tolerates unknown", func(t *testing.T) {
		targets, err := resolveTargets([]string{"mock", "nope"}, target.Options{}, false)
		if err != nil {
			t.Fatalf("resolveTargets failed: %v", err)
		}
		if len(targets) != 1 {
			t.Errorf("expected the one known target, got %d", len(targets))
		}
	})
}

func TestTargetOptions(t *testing.T) {
	swapDeps(t, NewMockDeps().Build())
	s := config.New()
	s.FanoutPolicy = config.FanoutAll

	opts := targetOptions(s)
	if opts.FanoutPolicy != config.FanoutAll {
		t.Errorf("fan-out policy not carried: %q", opts.FanoutPolicy)
	}
	if opts.Exec != deps.Executor {
		t.Error("executor not carried into target options")
	}
}
