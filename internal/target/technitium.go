package target

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ksyq12/certdeploy/internal/deployconf"
	"github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/logger"
	"github.com/ksyq12/certdeploy/internal/renewal"
	"github.com/ksyq12/certdeploy/internal/technitium"
)

// defaultTechnitiumPort is the Technitium DNS web service port.
const defaultTechnitiumPort = 5380

// Technitium points a Technitium DNS server's web service at the generated
// PKCS#12 bundle. The DNS server runs on the same host as the hook, so the
// bundle is referenced by local path.
type Technitium struct {
	httpClient *http.Client
}

// NewTechnitium creates the DNS web-service reload target
func NewTechnitium(httpClient *http.Client) *Technitium {
	return &Technitium{httpClient: httpClient}
}

func init() {
	Register("technitium", func(o Options) Target { return NewTechnitium(o.HTTPClient) })
}

// Name returns the target name
func (t *Technitium) Name() string {
	return "technitium"
}

// Key returns the deploy.json section key
func (t *Technitium) Key() string {
	return "technitium"
}

// Required returns the key paths that must be configured.
// The pkcs12 paths are a cross-target dependency on the export step.
func (t *Technitium) Required() []string {
	return []string{
		"technitium.host",
		"technitium.user",
		"technitium.pass",
		"pkcs12.pfxPath",
		"pkcs12.pfxPass",
	}
}

// Deploy logs in to the DNS web service and points its TLS settings at the
// renewed bundle.
func (t *Technitium) Deploy(rc *renewal.Context, doc *deployconf.Document) error {
	host := doc.GetString("technitium.host", "")
	base := host
	if !strings.Contains(base, "://") {
		base = fmt.Sprintf("http://%s:%d", host, doc.GetInt("technitium.port", defaultTechnitiumPort))
	}

	client := technitium.New(base, t.httpClient)
	token, err := client.Login(doc.GetString("technitium.user", ""), doc.GetString("technitium.pass", ""))
	if err != nil {
		return errors.Upstream("technitium", "login failed", err)
	}
	logger.Step("technitium: authenticated to %s", host)

	pfxPath := PfxLocalPath(rc, doc)
	if err := client.SetTLSCertificate(token, pfxPath, doc.GetString("pkcs12.pfxPass", "")); err != nil {
		return errors.Upstream("technitium", "settings update failed", err)
	}
	logger.Step("technitium: web service certificate set to %s", pfxPath)

	return nil
}
