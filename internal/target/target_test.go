package target

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ksyq12/certdeploy/internal/config"
	"github.com/ksyq12/certdeploy/internal/deployconf"
	"github.com/ksyq12/certdeploy/internal/executor"
	"github.com/ksyq12/certdeploy/internal/logger"
	"github.com/ksyq12/certdeploy/internal/renewal"
)

// newLineage builds a renewal context over a temp lineage directory with
// placeholder PEM files in place.
func newLineage(t *testing.T, domain string) *renewal.Context {
	t.Helper()
	rc, err := renewal.New(domain, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		rc.CertPath():      "leaf cert\n",
		rc.ChainPath():     "chain\n",
		rc.FullchainPath(): "leaf cert\nchain\n",
		rc.KeyPath():       "private key\n",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return rc
}

// newDoc writes content as a deploy.json in its own temp dir and loads it.
func newDoc(t *testing.T, content string) *deployconf.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deploy.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	doc, err := deployconf.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

// quietSteps redirects the deploy trail away from stdout for the test.
func quietSteps(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetEcho(&buf)
	t.Cleanup(func() { logger.SetEcho(os.Stdout) })
	return &buf
}

func TestAvailableListsAllTargets(t *testing.T) {
	want := []string{"blockpage", "clearpass", "pkcs12", "rsync", "technitium"}
	if got := Available(); !reflect.DeepEqual(got, want) {
		t.Errorf("Available() = %v, want %v", got, want)
	}
}

func TestOrderCoversEveryRegisteredTarget(t *testing.T) {
	if Order[0] != "pkcs12" {
		t.Errorf("pkcs12 must run first, Order = %v", Order)
	}
	if len(Order) != len(Available()) {
		t.Fatalf("Order has %d targets, registry has %d", len(Order), len(Available()))
	}
	for _, name := range Order {
		tgt, ok := Get(name, Options{})
		if !ok {
			t.Errorf("ordered target %q is not registered", name)
			continue
		}
		if tgt.Name() != name {
			t.Errorf("Get(%q) built target named %q", name, tgt.Name())
		}
	}
}

func TestGetUnknownTarget(t *testing.T) {
	if _, ok := Get("nope", Options{}); ok {
		t.Error("Get must report unknown targets")
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if _, isSystem := o.exec().(*executor.SystemExecutor); !isSystem {
		t.Error("nil Exec must fall back to the system executor")
	}
	if got := o.policy(); got != config.FanoutAny {
		t.Errorf("default fan-out policy = %q, want %q", got, config.FanoutAny)
	}

	mock := &executor.MockExecutor{}
	o = Options{Exec: mock, FanoutPolicy: config.FanoutAll}
	if o.exec() != mock {
		t.Error("configured executor must be used")
	}
	if o.policy() != config.FanoutAll {
		t.Errorf("configured policy = %q", o.policy())
	}
}
