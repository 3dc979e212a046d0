package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ksyq12/certdeploy/internal/config"
	"github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/logger"
	"github.com/ksyq12/certdeploy/internal/target"
)

// writeLineage creates a lineage directory with placeholder PEM files and
// the given deploy.json content. Empty content skips the sidecar.
func writeLineage(t *testing.T, deployJSON string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"cert.pem", "chain.pem", "fullchain.pem", "privkey.pem"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name+"\n"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if deployJSON != "" {
		if err := os.WriteFile(filepath.Join(dir, "deploy.json"), []byte(deployJSON), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// testSettings keeps the deploy log inside the test's temp space.
func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	s := config.New()
	s.LogFile = filepath.Join(t.TempDir(), "deploy.log")
	return s
}

// swapDeps installs d for the test and restores everything after.
func swapDeps(t *testing.T, d *Dependencies) {
	t.Helper()
	old := deps
	deps = d
	var trail bytes.Buffer
	logger.SetEcho(&trail)
	t.Cleanup(func() {
		deps = old
		logger.SetEcho(os.Stdout)
		logger.SetDeployLog(nil)
	})
}

func TestRunRun(t *testing.T) {
	tests := []struct {
		name       string
		deployJSON string
		args       []string
		target     *target.MockTarget
		noEnv      bool
		wantCode   int
		wantCalls  int
	}{
		{
			name:       "explicit target deploys",
			deployJSON: `{"mock": {"key": "value"}}`,
			args:       []string{"mock"},
			target:     &target.MockTarget{RequiredKeys: []string{"mock.key"}},
			wantCode:   0,
			wantCalls:  1,
		},
		{
			name:       "default order runs registered targets",
			deployJSON: `{"pkcs12": {}}`,
			target:     &target.MockTarget{TargetName: "pkcs12"},
			wantCode:   0,
			wantCalls:  1,
		},
		{
			name:       "unconfigured target skips",
			deployJSON: `{"other": {}}`,
			args:       []string{"mock"},
			target:     &target.MockTarget{},
			wantCode:   0,
			wantCalls:  0,
		},
		{
			name:       "missing environment",
			deployJSON: `{"mock": {}}`,
			args:       []string{"mock"},
			target:     &target.MockTarget{},
			noEnv:      true,
			wantCode:   1,
			wantCalls:  0,
		},
		{
			name:      "missing deploy.json",
			args:      []string{"mock"},
			target:    &target.MockTarget{},
			wantCode:  1,
			wantCalls: 0,
		},
		{
			name:       "missing required keys",
			deployJSON: `{"mock": {}}`,
			args:       []string{"mock"},
			target:     &target.MockTarget{RequiredKeys: []string{"mock.host", "mock.user"}},
			wantCode:   2,
			wantCalls:  0,
		},
		{
			name:       "upstream failure",
			deployJSON: `{"mock": {}}`,
			args:       []string{"mock"},
			target:     &target.MockTarget{DeployErr: errors.Upstream("mock", "rejected", nil)},
			wantCode:   3,
			wantCalls:  1,
		},
		{
			name:       "unknown explicit target",
			deployJSON: `{"mock": {}}`,
			args:       []string{"nope"},
			target:     &target.MockTarget{},
			wantCode:   1,
			wantCalls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonOutput = false
			lineage := writeLineage(t, tt.deployJSON)

			builder := NewMockDeps().
				WithSettings(testSettings(t)).
				WithTarget(tt.target)
			if !tt.noEnv {
				builder = builder.WithEnv("a.example.org www.a.example.org", lineage)
			}
			swapDeps(t, builder.Build())

			err := runRun(nil, tt.args)

			if got := errors.ExitCode(err); got != tt.wantCode {
				t.Errorf("exit code = %d, want %d (err: %v)", got, tt.wantCode, err)
			}
			if tt.target.DeployCalls != tt.wantCalls {
				t.Errorf("Deploy calls = %d, want %d", tt.target.DeployCalls, tt.wantCalls)
			}
		})
	}
}

func TestRunRunAbortsAfterPkcs12Failure(t *testing.T) {
	jsonOutput = false
	lineage := writeLineage(t, `{"pkcs12": {}, "technitium": {}}`)
	export := &target.MockTarget{TargetName: "pkcs12", DeployErr: errors.Transfer("pkcs12", "conversion failed", nil)}
	later := &target.MockTarget{TargetName: "technitium"}

	swapDeps(t, NewMockDeps().
		WithSettings(testSettings(t)).
		WithEnv("a.example.org", lineage).
		WithTarget(export).
		WithTarget(later).
		Build())

	if err := runRun(nil, nil); err == nil {
		t.Fatal("pkcs12 failure must be reported")
	}
	if later.DeployCalls != 0 {
		t.Error("targets after a failed pkcs12 export must not run")
	}
}

func TestRunRunWritesDeployLog(t *testing.T) {
	jsonOutput = false
	lineage := writeLineage(t, `{"mock": {}}`)
	settings := testSettings(t)

	swapDeps(t, NewMockDeps().
		WithSettings(settings).
		WithEnv("a.example.org", lineage).
		WithTarget(&target.MockTarget{}).
		Build())

	if err := runRun(nil, []string{"mock"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(settings.LogFile)
	if err != nil {
		t.Fatalf("deploy log not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("deploy log is empty after a run")
	}
}

func TestRunRunJSONReportsFailure(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()
	lineage := writeLineage(t, `{"mock": {}}`)

	swapDeps(t, NewMockDeps().
		WithSettings(testSettings(t)).
		WithEnv("a.example.org", lineage).
		WithTarget(&target.MockTarget{DeployErr: errors.Upstream("mock", "rejected", nil)}).
		Build())

	// The JSON report never swallows the exit code.
	err := runRun(nil, []string{"mock"})
	if errors.ExitCode(err) != 3 {
		t.Errorf("exit code = %d, want 3 (err: %v)", errors.ExitCode(err), err)
	}
}
