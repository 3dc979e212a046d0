package target

import (
	"github.com/ksyq12/certdeploy/internal/deployconf"
	"github.com/ksyq12/certdeploy/internal/renewal"
)

// MockTarget is a configurable test double for the Target interface.
type MockTarget struct {
	TargetName   string
	TargetKey    string
	RequiredKeys []string
	DeployErr    error
	DeployFunc   func(rc *renewal.Context, doc *deployconf.Document) error

	// DeployCalls counts Deploy invocations.
	DeployCalls int
}

// Name returns the configured target name
func (m *MockTarget) Name() string {
	if m.TargetName == "" {
		return "mock"
	}
	return m.TargetName
}

// Key returns the configured deploy.json key, defaulting to the name
func (m *MockTarget) Key() string {
	if m.TargetKey != "" {
		return m.TargetKey
	}
	return m.Name()
}

// Required returns the configured required key paths
func (m *MockTarget) Required() []string {
	return m.RequiredKeys
}

// Deploy records the call and returns the configured result
func (m *MockTarget) Deploy(rc *renewal.Context, doc *deployconf.Document) error {
	m.DeployCalls++
	if m.DeployFunc != nil {
		return m.DeployFunc(rc, doc)
	}
	return m.DeployErr
}
