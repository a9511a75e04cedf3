// Package auth issues and validates bearer tokens, hashes passwords and rate
// limits authenticated callers.
//
// Access and refresh tokens are HS256 JWTs. The subject is the user id and the
// token_type claim separates the two kinds so a refresh token is never
// accepted as a bearer credential.
package auth
