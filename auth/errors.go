package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found")

// ErrTokenExpired means the token's expiry lies in the past
var ErrTokenExpired = errors.New("token is expired")

// ErrTokenMalformed covers undecodable tokens, signature mismatches, and
// issuer mismatches. At the boundary they all collapse to "invalid".
var ErrTokenMalformed = errors.New("token is malformed")

// ErrMismatchedHashAndPassword is returned for both unknown users and wrong
// passwords so login failures stay indistinguishable to the client.
var ErrMismatchedHashAndPassword = errors.New("credentials do not match")

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("value should not be an empty string")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) || errors.Is(err, jwt.ErrTokenExpired)
}

// IsMalformedError will check for tokens we could not decode or verify
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) || errors.Is(err, jwt.ErrTokenMalformed)
}
