package target

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ksyq12/certdeploy/internal/clearpass"
	"github.com/ksyq12/certdeploy/internal/config"
	"github.com/ksyq12/certdeploy/internal/deployconf"
	"github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/logger"
	"github.com/ksyq12/certdeploy/internal/renewal"
)

// uuidPlaceholder is substituted in certificate-store URI templates.
const uuidPlaceholder = "$uuid"

// ClearPass pushes the PKCS#12 bundle into a ClearPass appliance's
// certificate stores (HTTPS, RADIUS) by URI. The appliance pulls the bundle
// over HTTPS from this host's web-accessible directory, so the update body
// carries a download URL plus the export password rather than the file
// itself.
type ClearPass struct {
	httpClient *http.Client
	policy     string
}

// NewClearPass creates the NAC certificate push target
func NewClearPass(httpClient *http.Client, policy string) *ClearPass {
	if policy == "" {
		policy = config.FanoutAny
	}
	return &ClearPass{httpClient: httpClient, policy: policy}
}

func init() {
	Register("clearpass", func(o Options) Target { return NewClearPass(o.HTTPClient, o.policy()) })
}

// Name returns the target name
func (c *ClearPass) Name() string {
	return "clearpass"
}

// Key returns the deploy.json section key
func (c *ClearPass) Key() string {
	return "clearPass"
}

// Required returns the key paths that must be configured.
// The pkcs12 paths are a cross-target dependency on the export step.
func (c *ClearPass) Required() []string {
	return []string{
		"clearPass.host",
		"clearPass.authUrl",
		"clearPass.uuidUrl",
		"clearPass.clientId",
		"clearPass.clientSecret",
		"clearPass.certUris[]",
		"clearPass.webHost",
		"clearPass.webPath",
		"pkcs12.pfxPath",
		"pkcs12.pfxPass",
	}
}

// Deploy authenticates, resolves the appliance's server UUID, and fans the
// certificate update out across every configured store URI.
//
// Each store update is independent: a failure on one URI never aborts the
// remaining URIs, so N configured URIs always see N attempts. How partial
// failure is reported afterwards follows the configured fan-out policy.
func (c *ClearPass) Deploy(rc *renewal.Context, doc *deployconf.Document) error {
	host := doc.GetString("clearPass.host", "")
	client := clearpass.New(c.httpClient)

	token, err := client.Authenticate(
		absoluteURL(host, doc.GetString("clearPass.authUrl", "")),
		doc.GetString("clearPass.clientId", ""),
		doc.GetString("clearPass.clientSecret", ""),
	)
	if err != nil {
		return errors.Upstream("clearPass", "authentication failed", err)
	}
	logger.Step("clearPass: authenticated to %s", host)

	serverUUID, err := client.ServerUUID(absoluteURL(host, doc.GetString("clearPass.uuidUrl", "")), token)
	if err != nil {
		return errors.Upstream("clearPass", "server uuid lookup failed", err)
	}
	logger.Step("clearPass: server uuid %s", serverUUID)

	update := clearpass.CertificateUpdate{
		PfxFileURL:    c.bundleURL(rc, doc),
		PfxPassphrase: doc.GetString("pkcs12.pfxPass", ""),
	}

	uris := doc.GetStringSlice("clearPass.certUris")
	failed := 0
	for _, uri := range uris {
		resolved := absoluteURL(host, strings.ReplaceAll(uri, uuidPlaceholder, serverUUID))
		if err := client.UpdateCertificate(resolved, token, update); err != nil {
			failed++
			logger.StepError("clearPass: update %s failed: %v", resolved, err)
			continue
		}
		logger.Step("clearPass: updated %s", resolved)
	}

	switch c.policy {
	case config.FanoutAll:
		if failed > 0 {
			return errors.Upstream("clearPass", fmt.Sprintf("%d of %d certificate stores failed", failed, len(uris)), nil)
		}
	case config.FanoutNone:
		// Partial failure already logged per URI.
	default: // config.FanoutAny
		if failed == len(uris) {
			return errors.Upstream("clearPass", fmt.Sprintf("all %d certificate stores failed", len(uris)), nil)
		}
	}
	return nil
}

// bundleURL builds the download URL the appliance fetches the bundle from.
func (c *ClearPass) bundleURL(rc *renewal.Context, doc *deployconf.Document) string {
	webPath := doc.GetString("clearPass.webPath", "")
	webPath = "/" + strings.Trim(webPath, "/")
	return fmt.Sprintf("https://%s:%d%s/%s",
		doc.GetString("clearPass.webHost", ""),
		doc.GetInt("clearPass.webPort", 443),
		webPath,
		PfxFileName(rc, doc),
	)
}

// absoluteURL resolves a configured endpoint: already-absolute URLs pass
// through, bare paths are anchored at the appliance host over HTTPS.
func absoluteURL(host, pathOrURL string) string {
	if strings.Contains(pathOrURL, "://") {
		return pathOrURL
	}
	return "https://" + host + "/" + strings.TrimLeft(pathOrURL, "/")
}
