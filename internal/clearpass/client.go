// Package clearpass is a minimal client for the ClearPass Policy Manager
// REST API, covering the calls the deploy hook needs: OAuth token issuance,
// cluster server UUID lookup, and certificate-store updates by URI.
//
// The appliance pulls the PKCS#12 bundle by URL rather than receiving it as a
// request body, so certificate updates reference the bundle's download
// location plus its export passphrase.
package clearpass

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// Client talks to one ClearPass appliance.
type Client struct {
	// HTTPClient performs the requests. Nil means http.DefaultClient, which
	// carries no explicit timeout; any hang is bounded by the transport.
	HTTPClient *http.Client
}

// New creates a client using the given HTTP client.
func New(httpClient *http.Client) *Client {
	return &Client{HTTPClient: httpClient}
}

// tokenRequest is the OAuth client-credentials grant body.
type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// tokenResponse carries the issued bearer token.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// serverListResponse is the envelope of the cluster server collection.
type serverListResponse struct {
	Embedded struct {
		Items []struct {
			ServerUUID string `json:"server_uuid"`
		} `json:"items"`
	} `json:"_embedded"`
}

// CertificateUpdate references the PKCS#12 bundle a certificate store should
// fetch and install.
type CertificateUpdate struct {
	PfxFileURL    string `json:"pkcs12_file_url"`
	PfxPassphrase string `json:"pkcs12_passphrase"`
}

// Authenticate performs the OAuth client-credentials grant against authURL
// and returns the bearer token. An empty token is a failure even on HTTP 200.
func (c *Client) Authenticate(authURL, clientID, clientSecret string) (string, error) {
	body, err := json.Marshal(tokenRequest{
		GrantType:    "client_credentials",
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode token request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, authURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	respBody, err := c.do(req)
	if err != nil {
		return "", err
	}

	var resp tokenResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("invalid token response: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("token response carried no access_token")
	}
	return resp.AccessToken, nil
}

// ServerUUID queries uuidURL with the bearer token and returns the
// appliance's own server UUID from the embedded collection. The value is
// validated as a UUID before use in URI substitution.
func (c *Client) ServerUUID(uuidURL, token string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, uuidURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build server lookup request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	respBody, err := c.do(req)
	if err != nil {
		return "", err
	}

	var resp serverListResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("invalid server list response: %w", err)
	}

	for _, item := range resp.Embedded.Items {
		if item.ServerUUID == "" {
			continue
		}
		if err := uuid.Validate(item.ServerUUID); err != nil {
			return "", fmt.Errorf("server reported malformed uuid %q: %w", item.ServerUUID, err)
		}
		return item.ServerUUID, nil
	}
	return "", fmt.Errorf("no server uuid in response")
}

// UpdateCertificate issues one certificate-store update against uri.
func (c *Client) UpdateCertificate(uri, token string, update CertificateUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to encode certificate update: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, uri, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build certificate update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	if _, err := c.do(req); err != nil {
		return err
	}
	return nil
}

// do executes the request and returns the body for 2xx responses.
func (c *Client) do(req *http.Request) ([]byte, error) {
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s failed: HTTP %d: %s", req.Method, req.URL.Path, resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
