package target

import (
	"os"
	"path/filepath"

	"github.com/ksyq12/certdeploy/internal/deployconf"
	"github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/logger"
	"github.com/ksyq12/certdeploy/internal/pfx"
	"github.com/ksyq12/certdeploy/internal/renewal"
)

// Pkcs12 exports the renewed PEM material as a password-protected PKCS#12
// bundle. Runs first in a full deploy: the API-driven targets reference its
// artifact and password.
type Pkcs12 struct{}

// NewPkcs12 creates the PKCS#12 export target
func NewPkcs12() *Pkcs12 {
	return &Pkcs12{}
}

func init() {
	Register("pkcs12", func(Options) Target { return NewPkcs12() })
}

// Name returns the target name
func (p *Pkcs12) Name() string {
	return "pkcs12"
}

// Key returns the deploy.json section key
func (p *Pkcs12) Key() string {
	return "pkcs12"
}

// Required returns the key paths that must be configured
func (p *Pkcs12) Required() []string {
	return []string{"pkcs12.pfxPath"}
}

// Deploy converts the lineage's key and fullchain into a PKCS#12 bundle.
//
// A fresh password is generated every run; renewals never reuse an export
// credential. The password is persisted into deploy.json only after the
// conversion and permission steps succeed, so an interrupted run leaves the
// sidecar untouched.
func (p *Pkcs12) Deploy(rc *renewal.Context, doc *deployconf.Document) error {
	outDir := doc.GetString("pkcs12.pfxPath", "")
	owner := doc.GetString("pkcs12.pfxUser", "root")
	group := doc.GetString("pkcs12.pfxGroup", "root")
	mode := doc.GetString("pkcs12.pfxMode", "440")
	outPath := PfxLocalPath(rc, doc)

	password, err := pfx.NewPassword()
	if err != nil {
		return errors.Transfer("pkcs12", "failed to generate export password", err)
	}

	keyPEM, err := os.ReadFile(rc.KeyPath())
	if err != nil {
		return errors.Transfer("pkcs12", "failed to read private key", err)
	}
	fullchainPEM, err := os.ReadFile(rc.FullchainPath())
	if err != nil {
		return errors.Transfer("pkcs12", "failed to read fullchain", err)
	}

	bundle, err := pfx.Export(keyPEM, fullchainPEM, password)
	if err != nil {
		return errors.Transfer("pkcs12", "conversion failed", err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return errors.Transfer("pkcs12", "failed to create output directory", err)
	}
	if err := os.WriteFile(outPath, bundle, 0600); err != nil {
		return errors.Transfer("pkcs12", "failed to write bundle", err)
	}
	if err := pfx.Apply(outPath, owner, group, mode); err != nil {
		return errors.Transfer("pkcs12", "failed to set ownership", err)
	}
	logger.Step("pkcs12: wrote %s (%s:%s mode %s)", outPath, owner, group, mode)

	if err := doc.Set("pkcs12", "pfxPass", password); err != nil {
		return errors.Transfer("pkcs12", "failed to record export password", err)
	}
	if err := doc.SaveAtomic(); err != nil {
		return errors.Transfer("pkcs12", "failed to save deploy.json", err)
	}
	logger.Step("pkcs12: recorded export password in %s", doc.Path())

	return nil
}

// PfxFileName returns the effective bundle file name for a lineage: the
// explicit pkcs12.pfxFile when configured, else "<firstDomain>.pfx".
func PfxFileName(rc *renewal.Context, doc *deployconf.Document) string {
	return doc.GetString("pkcs12.pfxFile", rc.FirstDomain()+".pfx")
}

// PfxLocalPath returns the bundle's path on the local filesystem.
func PfxLocalPath(rc *renewal.Context, doc *deployconf.Document) string {
	return filepath.Join(doc.GetString("pkcs12.pfxPath", ""), PfxFileName(rc, doc))
}
