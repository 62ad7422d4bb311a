package service

import "errors"

// Sentinel errors of the auth core. The API error handler maps these to HTTP
// statuses; nothing below this package sees driver or library errors.
var (
	// "user not found" and "wrong password" collapse into this one error so
	// responses carry no account-enumeration signal.
	ErrInvalidCredentials = errors.New("Invalid credentials")

	ErrEmailTaken = errors.New("email is already taken")

	ErrTokenExpired          = errors.New("token expired")
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrInvalidSigningMethod  = errors.New("invalid signing method")

	ErrRefreshTokenMissing = errors.New("Refresh token missing")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	ErrUnauthorized = errors.New("Unauthorized")
)
