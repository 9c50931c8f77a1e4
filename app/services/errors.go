// Package services implements the business logic between controllers and
// repositories: accounts, the catalog, order placement, cart reconciliation
// and emission estimation.
package services

import "errors"

// Sentinel errors mapped to HTTP statuses by the controllers.
var (
	// ErrNotFound covers any missing resource (item, order, user).
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when registering an already-used email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on login with a wrong email or
	// password. Deliberately does not say which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden is returned when a vendor operates on a resource it does
	// not own.
	ErrForbidden = errors.New("forbidden")

	// ErrBadTransition is returned for an order status change the lifecycle
	// does not allow.
	ErrBadTransition = errors.New("invalid status transition")

	// ErrEmptyOrder is returned when placement is attempted with no
	// positive-quantity lines.
	ErrEmptyOrder = errors.New("order has no items")

	// ErrInvalidPickupTime is returned when a pickup time cannot be parsed.
	// Unreachable through the HTTP boundary, which validates the same layouts.
	ErrInvalidPickupTime = errors.New("invalid pickup time")
)
