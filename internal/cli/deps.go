package cli

import (
	"os"

	"github.com/ksyq12/certdeploy/internal/config"
	"github.com/ksyq12/certdeploy/internal/executor"
	"github.com/ksyq12/certdeploy/internal/input"
	"github.com/ksyq12/certdeploy/internal/target"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	Env            EnvReader
	SettingsLoader SettingsLoader
	Targets        TargetResolver
	Executor       executor.CommandExecutor
	StdinReader    input.Reader
}

// EnvReader reads process environment variables
type EnvReader interface {
	Getenv(key string) string
}

// SettingsLoader handles tool settings loading and saving
type SettingsLoader interface {
	Load() (*config.Settings, error)
	Save(s *config.Settings) error
}

// TargetResolver builds deploy targets by name
type TargetResolver interface {
	Get(name string, opts target.Options) (target.Target, bool)
	Available() []string
}

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	Env:            &realEnvReader{},
	SettingsLoader: &realSettingsLoader{},
	Targets:        &realTargetResolver{},
	Executor:       executor.NewSystemExecutor(),
	StdinReader:    input.NewStdinReader(),
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

// Real implementations that delegate to existing functions

type realEnvReader struct{}

func (r *realEnvReader) Getenv(key string) string {
	return os.Getenv(key)
}

type realSettingsLoader struct{}

func (r *realSettingsLoader) Load() (*config.Settings, error) {
	return config.Load()
}

func (r *realSettingsLoader) Save(s *config.Settings) error {
	return s.Save()
}

type realTargetResolver struct{}

func (r *realTargetResolver) Get(name string, opts target.Options) (target.Target, bool) {
	return target.Get(name, opts)
}

func (r *realTargetResolver) Available() []string {
	return target.Available()
}
