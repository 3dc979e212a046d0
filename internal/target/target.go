package target

import (
	"net/http"
	"sort"

	"github.com/ksyq12/certdeploy/internal/config"
	"github.com/ksyq12/certdeploy/internal/deployconf"
	"github.com/ksyq12/certdeploy/internal/executor"
	"github.com/ksyq12/certdeploy/internal/renewal"
)

// Target is the interface every deploy target implements.
type Target interface {
	// Name returns the target name used on the command line
	Name() string

	// Key returns the target's top-level key in deploy.json
	Key() string

	// Required returns the dot-delimited key paths that must be present
	// before Deploy runs. Paths may reference other targets' sections for
	// cross-target dependencies, and a trailing "[]" marks a key that must
	// be a non-empty array.
	Required() []string

	// Deploy pushes the renewed certificate material to the downstream
	// consumer. It is only called after Required() validated clean.
	Deploy(rc *renewal.Context, doc *deployconf.Document) error
}

// Options carries the runtime collaborators targets are built with.
type Options struct {
	// HTTPClient is used by API-driven targets. Nil keeps the transport
	// default behavior (no explicit timeout).
	HTTPClient *http.Client
	// FanoutPolicy governs partial-failure reporting for multi-URI pushes.
	// Empty means config.FanoutAny.
	FanoutPolicy string
	// Exec runs helper commands for file-transfer targets. Nil means the
	// system executor.
	Exec executor.CommandExecutor
}

func (o Options) exec() executor.CommandExecutor {
	if o.Exec != nil {
		return o.Exec
	}
	return executor.NewSystemExecutor()
}

func (o Options) policy() string {
	if o.FanoutPolicy == "" {
		return config.FanoutAny
	}
	return o.FanoutPolicy
}

// Factory builds a target from runtime options.
type Factory func(Options) Target

// Order is the dependency order for full runs: the PKCS#12 export first,
// because the API-driven targets reference its artifact.
var Order = []string{"pkcs12", "technitium", "clearpass", "blockpage", "rsync"}

// registry holds all registered target factories
var registry = make(map[string]Factory)

// Register adds a target factory to the registry
func Register(name string, f Factory) {
	registry[name] = f
}

// Get builds a target by name
func Get(name string, opts Options) (Target, bool) {
	f, ok := registry[name]
	if !ok {
		return nil, false
	}
	return f(opts), true
}

// Available returns all registered target names, sorted
func Available() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
