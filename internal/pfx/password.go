package pfx

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// passwordAlphabet is the character set for export passwords. Alphanumeric
// only: the password travels through JSON, shell-adjacent tooling, and
// appliance APIs, so shell-unsafe characters are excluded.
const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// PasswordLength is the fixed length of generated export passwords.
const PasswordLength = 20

// NewPassword generates a fresh export password. Every renewal gets a new
// one; passwords are never reused across runs.
func NewPassword() (string, error) {
	buf := make([]byte, PasswordLength)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
