package cli

import (
	"sort"

	"github.com/ksyq12/certdeploy/internal/config"
	"github.com/ksyq12/certdeploy/internal/executor"
	"github.com/ksyq12/certdeploy/internal/input"
	"github.com/ksyq12/certdeploy/internal/renewal"
	"github.com/ksyq12/certdeploy/internal/target"
)

// MockEnvReader is a test double for EnvReader
type MockEnvReader struct {
	Vars map[string]string
}

func (m *MockEnvReader) Getenv(key string) string {
	return m.Vars[key]
}

// MockSettingsLoader is a test double for SettingsLoader
type MockSettingsLoader struct {
	Settings  *config.Settings
	LoadErr   error
	SaveErr   error
	SaveCalls int
}

func (m *MockSettingsLoader) Load() (*config.Settings, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Settings == nil {
		m.Settings = config.New()
	}
	return m.Settings, nil
}

func (m *MockSettingsLoader) Save(s *config.Settings) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Settings = s
	return nil
}

// MockTargetResolver is a test double for TargetResolver, serving targets
// from a fixed map instead of the registry
type MockTargetResolver struct {
	Targets map[string]target.Target
}

func (m *MockTargetResolver) Get(name string, opts target.Options) (target.Target, bool) {
	tgt, ok := m.Targets[name]
	return tgt, ok
}

func (m *MockTargetResolver) Available() []string {
	names := make([]string, 0, len(m.Targets))
	for name := range m.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MockDependenciesBuilder helps create mock dependencies for tests
type MockDependenciesBuilder struct {
	deps *Dependencies
}

// NewMockDeps creates a new MockDependenciesBuilder with sensible defaults
func NewMockDeps() *MockDependenciesBuilder {
	return &MockDependenciesBuilder{
		deps: &Dependencies{
			Env:            &MockEnvReader{Vars: map[string]string{}},
			SettingsLoader: &MockSettingsLoader{Settings: config.New()},
			Targets:        &MockTargetResolver{Targets: map[string]target.Target{}},
			Executor:       &executor.MockExecutor{},
			StdinReader:    input.NewStringReader(),
		},
	}
}

// WithEnv sets the certbot renewal environment for the mock
func (b *MockDependenciesBuilder) WithEnv(domains, lineageDir string) *MockDependenciesBuilder {
	b.deps.Env = &MockEnvReader{Vars: map[string]string{
		renewal.EnvDomains: domains,
		renewal.EnvLineage: lineageDir,
	}}
	return b
}

// WithSettings sets the tool settings for the mock
func (b *MockDependenciesBuilder) WithSettings(s *config.Settings) *MockDependenciesBuilder {
	b.deps.SettingsLoader = &MockSettingsLoader{Settings: s}
	return b
}

// WithSettingsLoader sets a custom settings loader
func (b *MockDependenciesBuilder) WithSettingsLoader(loader SettingsLoader) *MockDependenciesBuilder {
	b.deps.SettingsLoader = loader
	return b
}

// WithTarget adds a target served under its own name
func (b *MockDependenciesBuilder) WithTarget(tgt target.Target) *MockDependenciesBuilder {
	b.deps.Targets.(*MockTargetResolver).Targets[tgt.Name()] = tgt
	return b
}

// WithRealTargets serves targets from the real registry
func (b *MockDependenciesBuilder) WithRealTargets() *MockDependenciesBuilder {
	b.deps.Targets = &realTargetResolver{}
	return b
}

// WithExecutor sets the command executor for the mock
func (b *MockDependenciesBuilder) WithExecutor(exec executor.CommandExecutor) *MockDependenciesBuilder {
	b.deps.Executor = exec
	return b
}

// WithStdinInput sets the stdin input for the mock.
// Each input must include its trailing newline.
func (b *MockDependenciesBuilder) WithStdinInput(inputs ...string) *MockDependenciesBuilder {
	b.deps.StdinReader = input.NewStringReader(inputs...)
	return b
}

// Build returns the configured Dependencies
func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}
