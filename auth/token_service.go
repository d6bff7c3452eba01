package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenServiceImpl implements the TokenService interface over the
// process-held RSA key pair.
type TokenServiceImpl struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	ttl        time.Duration
	logger     Logger
}

// NewTokenService creates a new TokenService instance. The key pair comes
// from NewSigningKeyPair at bootstrap; issuer and ttl come from config.
func NewTokenService(key *rsa.PrivateKey, issuer string, ttl time.Duration, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		privateKey: key,
		publicKey:  &key.PublicKey,
		issuer:     issuer,
		ttl:        ttl,
		logger:     logger,
	}
}

var _ TokenService = (*TokenServiceImpl)(nil)

// Issue creates a signed, time-boxed token bound to the given identity.
// Subject is the user id, expiry is issued-at plus the fixed ttl.
func (ts *TokenServiceImpl) Issue(identity Identity) (string, error) {
	if identity == nil {
		return "", ErrIdentityNotFound
	}

	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		UserName: identity.Username(),
		UserMail: identity.Email(),
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the process private key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)

	signedString, err := token.SignedString(ts.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}

	return signedString, nil
}

// Verify parses and validates a token string, returning structured claims.
// A token is valid only when the signature verifies against the process
// public key, the issuer claim matches, and the current time is before
// expiry. Expiry is a hard boundary; clock skew is not compensated.
func (ts *TokenServiceImpl) Verify(tokenString string) (AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			ts.logger.Debug("token verify encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.publicKey, nil
	}, jwt.WithIssuer(ts.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Debug("token verify could not decode claims")
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// IsValid is the boundary predicate: every verification failure collapses to
// false without surfacing why.
func (ts *TokenServiceImpl) IsValid(tokenString string) bool {
	_, err := ts.Verify(tokenString)
	return err == nil
}
