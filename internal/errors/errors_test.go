package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestDeployError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *DeployError
		want string
	}{
		{
			name: "message only",
			err:  &DeployError{Code: ErrCodeInit, Message: "no lineage"},
			want: "no lineage",
		},
		{
			name: "target and message",
			err:  &DeployError{Code: ErrCodeUpstream, Message: "login failed", Target: "technitium"},
			want: "technitium: login failed",
		},
		{
			name: "target, message and wrapped error",
			err:  &DeployError{Code: ErrCodeUpstream, Message: "login failed", Target: "technitium", Err: fmt.Errorf("boom")},
			want: "technitium: login failed: boom",
		},
		{
			name: "wrapped error without target",
			err:  &DeployError{Code: ErrCodeInit, Message: "load config", Err: fmt.Errorf("boom")},
			want: "load config: boom",
		},
		{
			name: "missing keys enumerated",
			err:  &DeployError{Code: ErrCodeConfigMissing, Message: "missing required configuration", Target: "clearPass", Missing: []string{"clearPass.host", "clearPass.certUris[]"}},
			want: "clearPass: missing required configuration: clearPass.host, clearPass.certUris[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, 0},
		{"soft skip", Skip("blockpage", "install directory not found"), 0},
		{"init error", Init("no lineage", nil), 1},
		{"missing keys", MissingKeys("pkcs12", []string{"pkcs12.pfxPath"}), 2},
		{"upstream failure", Upstream("clearPass", "empty token", nil), 3},
		{"transfer failure", Transfer("pkcs12", "conversion failed", fmt.Errorf("bad pem")), 1},
		{"plain error", fmt.Errorf("something"), 1},
		{"wrapped deploy error", fmt.Errorf("outer: %w", Upstream("t", "auth", nil)), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsSkip(t *testing.T) {
	if !IsSkip(Skip("blockpage", "not found")) {
		t.Error("IsSkip should be true for Skip errors")
	}
	if IsSkip(Init("bad env", nil)) {
		t.Error("IsSkip should be false for init errors")
	}
	if IsSkip(nil) {
		t.Error("IsSkip should be false for nil")
	}
	if !IsSkip(fmt.Errorf("wrapped: %w", Skip("t", "m"))) {
		t.Error("IsSkip should unwrap error chains")
	}
}

func TestSentinelMatching(t *testing.T) {
	err := Init("RENEWED_LINEAGE is not set", nil)
	if !stderrors.Is(err, ErrNoLineage) {
		t.Error("init errors should match ErrNoLineage by code")
	}

	err = Upstream("clearPass", "token empty", nil)
	if !stderrors.Is(err, ErrAuthFailed) {
		t.Error("upstream errors should match ErrAuthFailed by code")
	}
	if stderrors.Is(err, ErrNotConfigured) {
		t.Error("upstream errors should not match skip sentinels")
	}
}

func TestMissingKeysListsAll(t *testing.T) {
	missing := []string{"rsync.host", "rsync.user", "rsync.keyFile"}
	err := MissingKeys("rsync", missing)

	var depErr *DeployError
	if !stderrors.As(err, &depErr) {
		t.Fatal("expected *DeployError")
	}
	if len(depErr.Missing) != 3 {
		t.Fatalf("expected 3 missing keys, got %d", len(depErr.Missing))
	}
	for _, key := range missing {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error message should contain %q: %s", key, err.Error())
		}
	}
}

func TestUnwrap(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := Upstream("technitium", "login failed", inner)
	if !stderrors.Is(err, inner) {
		t.Error("wrapped error should be reachable via errors.Is")
	}
}
