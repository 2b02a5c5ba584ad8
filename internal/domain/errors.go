package domain

import "errors"

var (
	// ErrUpstreamUnavailable is returned when a catalog fetch fails and no
	// cached snapshot exists to fall back on.
	ErrUpstreamUnavailable = errors.New("upstream catalog unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrWeakPassword is returned when a password fails the account policy
	ErrWeakPassword = errors.New("password does not meet policy")

	// ErrEmailTaken is returned when registering with an email that already exists
	ErrEmailTaken = errors.New("email address is already in use")

	// ErrInvalidCredentials is returned on login with a wrong email or password
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned when a user lookup finds nothing
	ErrUserNotFound = errors.New("user not found")

	// ErrFavoriteExists is returned when saving a wine that is already a favorite
	ErrFavoriteExists = errors.New("wine is already a favorite")

	// ErrFavoriteNotFound is returned when removing a favorite that does not exist
	ErrFavoriteNotFound = errors.New("favorite not found")
)
