// Package pfx converts PEM certificate material into password-protected
// PKCS#12 bundles and applies ownership and permission bits to the result.
// The conversion happens in-process; no openssl binary is required at
// deploy time.
package pfx

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"os/user"
	"strconv"

	"software.sslmate.com/src/go-pkcs12"
)

// Export converts a PEM private key and a PEM fullchain bundle (leaf first,
// then intermediates) into a PKCS#12 bundle protected by password.
func Export(keyPEM, fullchainPEM []byte, password string) ([]byte, error) {
	key, err := parsePrivateKey(keyPEM)
	if err != nil {
		return nil, err
	}

	certs, err := parseCertificates(fullchainPEM)
	if err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("no certificates found in fullchain")
	}

	leaf := certs[0]
	caCerts := certs[1:]

	data, err := pkcs12.Modern.Encode(key, leaf, caCerts, password)
	if err != nil {
		return nil, fmt.Errorf("pkcs12 encoding failed: %w", err)
	}
	return data, nil
}

// Apply sets ownership and permission bits on the exported bundle.
// Owner and group are names; mode is octal digits ("440").
func Apply(path, owner, group, mode string) error {
	u, err := user.Lookup(owner)
	if err != nil {
		return fmt.Errorf("unknown user %q: %w", owner, err)
	}
	g, err := user.LookupGroup(group)
	if err != nil {
		return fmt.Errorf("unknown group %q: %w", group, err)
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return fmt.Errorf("non-numeric uid for %q: %w", owner, err)
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return fmt.Errorf("non-numeric gid for %q: %w", group, err)
	}

	if err := os.Chown(path, uid, gid); err != nil {
		return fmt.Errorf("chown %s: %w", path, err)
	}

	bits, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid mode %q: %w", mode, err)
	}
	if err := os.Chmod(path, os.FileMode(bits)); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

// parsePrivateKey decodes the first PEM block and parses it as PKCS#8,
// SEC1 EC, or PKCS#1 RSA, in that order. Certbot writes PKCS#8; the
// fallbacks cover operator-supplied keys.
func parsePrivateKey(keyPEM []byte) (interface{}, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in private key")
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	return nil, fmt.Errorf("unsupported private key format")
}

// parseCertificates decodes every CERTIFICATE block in order.
func parseCertificates(pemData []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	rest := pemData
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate: %w", err)
		}
		certs = append(certs, cert)
	}
	return certs, nil
}
