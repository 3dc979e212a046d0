// Package technitium is a minimal client for the Technitium DNS server web
// service API, covering the two calls the deploy hook needs: session login
// and pointing the web service at a renewed TLS certificate.
package technitium

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to one Technitium DNS server.
type Client struct {
	// BaseURL is the web service root, e.g. http://ns1.example.org:5380.
	BaseURL string
	// HTTPClient performs the requests. Nil means http.DefaultClient, which
	// carries no explicit timeout; any hang is bounded by the transport.
	HTTPClient *http.Client
}

// New creates a client for the given web service root.
func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: httpClient}
}

// apiResponse is the common envelope of Technitium API replies.
type apiResponse struct {
	Status       string `json:"status"`
	Token        string `json:"token"`
	ErrorMessage string `json:"errorMessage"`
}

// Login authenticates and returns a session token.
// An "ok" status with an empty or literal-null token still counts as failure.
func (c *Client) Login(user, pass string) (string, error) {
	q := url.Values{}
	q.Set("user", user)
	q.Set("pass", pass)

	resp, err := c.get("/api/user/login", q)
	if err != nil {
		return "", err
	}
	if resp.Status != "ok" {
		return "", fmt.Errorf("login rejected: %s", resp.message())
	}
	if resp.Token == "" || resp.Token == "null" {
		return "", fmt.Errorf("login returned no token")
	}
	return resp.Token, nil
}

// SetTLSCertificate points the DNS web service at a PKCS#12 bundle on its
// local filesystem, protected by password.
func (c *Client) SetTLSCertificate(token, pfxPath, pfxPassword string) error {
	q := url.Values{}
	q.Set("token", token)
	q.Set("webServiceTlsCertificatePath", pfxPath)
	q.Set("webServiceTlsCertificatePassword", pfxPassword)

	resp, err := c.get("/api/settings/set", q)
	if err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("settings update rejected: %s", resp.message())
	}
	return nil
}

func (r *apiResponse) message() string {
	if r.ErrorMessage != "" {
		return r.ErrorMessage
	}
	return fmt.Sprintf("status %q", r.Status)
}

func (c *Client) get(path string, q url.Values) (*apiResponse, error) {
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	u := c.BaseURL + path + "?" + q.Encode()
	httpResp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request to %s failed: HTTP %d", path, httpResp.StatusCode)
	}

	var resp apiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("invalid response from %s: %w", path, err)
	}
	return &resp, nil
}
