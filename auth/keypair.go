package auth

import (
	"crypto/rand"
	"crypto/rsa"
)

const signingKeyBits = 2048

// NewSigningKeyPair generates the process-wide RSA signing key pair. It is
// called once at bootstrap and the key is handed to the token service as a
// constructor dependency; it is never persisted or rotated, so every token
// issued before a restart becomes unverifiable afterwards.
func NewSigningKeyPair() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, signingKeyBits)
}
