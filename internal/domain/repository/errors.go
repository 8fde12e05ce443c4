package repository

import "errors"

var (
	// ErrObjectNotFound is returned when an object does not exist in storage.
	ErrObjectNotFound = errors.New("object not found")

	// ErrBucketNotFound is returned when the configured bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrProductNotFound is returned when a product cannot be found in the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductNotInCart is returned when updating a product that is absent
	// from the session's cart.
	ErrProductNotInCart = errors.New("product not found in cart")
)
