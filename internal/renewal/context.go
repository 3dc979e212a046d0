// Package renewal models the ephemeral context certbot hands a deploy hook:
// the list of renewed domains and the lineage directory holding the fresh
// certificate material.
package renewal

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/certdeploy/internal/errors"
)

// Environment variables set by certbot for deploy hooks.
const (
	EnvDomains = "RENEWED_DOMAINS"
	EnvLineage = "RENEWED_LINEAGE"
)

// Certificate material file names inside a lineage directory.
const (
	CertFile      = "cert.pem"
	ChainFile     = "chain.pem"
	FullchainFile = "fullchain.pem"
	KeyFile       = "privkey.pem"
	DeployFile    = "deploy.json"
)

// Context is the renewal context for one hook run. It is immutable for the
// duration of the run and never persisted.
type Context struct {
	Domains    []string // ordered, first domain names derived artifacts
	LineageDir string   // absolute path to the certificate directory
}

// FromEnv builds a Context from the certbot environment.
// Both variables must be present and non-empty; every later step assumes a
// valid lineage path, so this is checked before any other work.
func FromEnv() (*Context, error) {
	return New(os.Getenv(EnvDomains), os.Getenv(EnvLineage))
}

// New builds a Context from raw transport values: a space-delimited domain
// list and the lineage directory path.
func New(domains, lineageDir string) (*Context, error) {
	if strings.TrimSpace(lineageDir) == "" {
		return nil, errors.ErrNoLineage
	}
	fields := strings.Fields(domains)
	if len(fields) == 0 {
		return nil, errors.ErrNoDomains
	}
	return &Context{
		Domains:    fields,
		LineageDir: lineageDir,
	}, nil
}

// FirstDomain returns the primary domain of the lineage.
func (c *Context) FirstDomain() string {
	return c.Domains[0]
}

// CertPath returns the leaf certificate path.
func (c *Context) CertPath() string {
	return filepath.Join(c.LineageDir, CertFile)
}

// ChainPath returns the intermediate chain path.
func (c *Context) ChainPath() string {
	return filepath.Join(c.LineageDir, ChainFile)
}

// FullchainPath returns the leaf-plus-chain bundle path.
func (c *Context) FullchainPath() string {
	return filepath.Join(c.LineageDir, FullchainFile)
}

// KeyPath returns the private key path.
func (c *Context) KeyPath() string {
	return filepath.Join(c.LineageDir, KeyFile)
}

// DeployConfigPath returns the path of the deploy.json sidecar.
func (c *Context) DeployConfigPath() string {
	return filepath.Join(c.LineageDir, DeployFile)
}
