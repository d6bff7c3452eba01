// Package auth implements the token-based authentication core: an RSA key
// pair generated at process start, a JWT issuer/verifier bound to that key,
// and an authenticator that turns credentials into tokens and tokens back
// into live identities.
//
// Tokens are stateless and never revoked server-side; invalidation is purely
// time based. Verification is a pure function of (token, current time, key
// pair), so the package holds no locks and no mutable state after bootstrap.
package auth
