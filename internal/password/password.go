// Package password implements one-way password hashing and verification on
// top of bcrypt. The output embeds salt and cost, so verification needs no
// side channel.
package password

import "golang.org/x/crypto/bcrypt"

// Cost is the fixed bcrypt cost (log rounds). 12 balances brute-force
// resistance against login latency.
const Cost = 12

// Hash derives a salted bcrypt hash from plain.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plain matches hash. A malformed or truncated hash
// yields false, never an error: verification failures must be
// indistinguishable from wrong-password failures to the caller.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
