// Package common contains shared constants and sentinel errors used across
// CardTrack components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only accepted Authorization scheme.
const BearerScheme = "Bearer"

// InvalidCredentialsMessage is returned for every failed login, whether the
// email is unknown or the password is wrong.
const InvalidCredentialsMessage = "Invalid email or password"
