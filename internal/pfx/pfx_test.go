package pfx

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"os/user"
	"path/filepath"
	"testing"
	"time"

	"software.sslmate.com/src/go-pkcs12"
)

// testChain generates a CA plus a CA-signed leaf, returning the leaf key and
// a fullchain bundle (leaf first, then CA) in PEM form.
func testChain(t *testing.T, cn string) (keyPEM, fullchainPEM []byte) {
	t.Helper()

	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	caTmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "test ca"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTmpl, caTmpl, &caKey.PublicKey, caKey)
	if err != nil {
		t.Fatal(err)
	}
	caCert, err := x509.ParseCertificate(caDER)
	if err != nil {
		t.Fatal(err)
	}

	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	leafTmpl := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: cn},
		DNSNames:     []string{cn},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	leafDER, err := x509.CreateCertificate(rand.Reader, leafTmpl, caCert, &leafKey.PublicKey, caKey)
	if err != nil {
		t.Fatal(err)
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(leafKey)
	if err != nil {
		t.Fatal(err)
	}

	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})
	fullchainPEM = append(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: leafDER}),
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: caDER})...,
	)
	return keyPEM, fullchainPEM
}

func TestNewPasswordLengthAndCharset(t *testing.T) {
	for i := 0; i < 50; i++ {
		pass, err := NewPassword()
		if err != nil {
			t.Fatalf("NewPassword failed: %v", err)
		}
		if len(pass) != PasswordLength {
			t.Fatalf("password length = %d, want %d", len(pass), PasswordLength)
		}
		for _, c := range pass {
			switch {
			case c >= 'A' && c <= 'Z':
			case c >= 'a' && c <= 'z':
			case c >= '0' && c <= '9':
			default:
				t.Fatalf("non-alphanumeric character %q in password %q", c, pass)
			}
		}
	}
}

func TestNewPasswordNotReused(t *testing.T) {
	// Fresh credential per run is a policy, not an accident: assert
	// inequality, never equality.
	a, err := NewPassword()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewPassword()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("two generated passwords are identical: %q", a)
	}
}

func TestExportRoundTrip(t *testing.T) {
	keyPEM, fullchainPEM := testChain(t, "a.example.org")
	pass, err := NewPassword()
	if err != nil {
		t.Fatal(err)
	}

	data, err := Export(keyPEM, fullchainPEM, pass)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// The bundle must open with exactly the generated password.
	key, leaf, caCerts, err := pkcs12.DecodeChain(data, pass)
	if err != nil {
		t.Fatalf("bundle does not open with its own password: %v", err)
	}
	if key == nil {
		t.Error("no private key in bundle")
	}
	if leaf.Subject.CommonName != "a.example.org" {
		t.Errorf("wrong leaf: %s", leaf.Subject.CommonName)
	}
	if len(caCerts) != 1 || caCerts[0].Subject.CommonName != "test ca" {
		t.Errorf("chain not carried into bundle: %v", caCerts)
	}
}

func TestExportWrongPassword(t *testing.T) {
	keyPEM, fullchainPEM := testChain(t, "a.example.org")
	data, err := Export(keyPEM, fullchainPEM, "RightPassword1234567")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := pkcs12.DecodeChain(data, "WrongPassword1234567"); err == nil {
		t.Error("bundle opened with the wrong password")
	}
}

func TestExportBadKey(t *testing.T) {
	_, fullchainPEM := testChain(t, "a.example.org")
	if _, err := Export([]byte("not a key"), fullchainPEM, "pass"); err == nil {
		t.Error("expected error for garbage key input")
	}
}

func TestExportNoCertificates(t *testing.T) {
	keyPEM, _ := testChain(t, "a.example.org")
	if _, err := Export(keyPEM, []byte{}, "pass"); err == nil {
		t.Error("expected error for empty fullchain")
	}
}

func TestApply(t *testing.T) {
	current, err := user.Current()
	if err != nil {
		t.Fatal(err)
	}
	group, err := user.LookupGroupId(current.Gid)
	if err != nil {
		t.Skipf("cannot resolve current group: %v", err)
	}

	path := filepath.Join(t.TempDir(), "a.pfx")
	if err := os.WriteFile(path, []byte("bundle"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Apply(path, current.Username, group.Name, "440"); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0440 {
		t.Errorf("mode = %v, want 0440", info.Mode().Perm())
	}
}

func TestApplyUnknownUser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.pfx")
	if err := os.WriteFile(path, []byte("bundle"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Apply(path, "no-such-user-xyz", "no-such-group-xyz", "440"); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestApplyBadMode(t *testing.T) {
	current, err := user.Current()
	if err != nil {
		t.Fatal(err)
	}
	group, err := user.LookupGroupId(current.Gid)
	if err != nil {
		t.Skipf("cannot resolve current group: %v", err)
	}
	path := filepath.Join(t.TempDir(), "a.pfx")
	if err := os.WriteFile(path, []byte("bundle"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Apply(path, current.Username, group.Name, "rw-r"); err == nil {
		t.Error("expected error for non-octal mode")
	}
}
