package domain

import "errors"

// ErrNodeNotFound is returned by adapters when a node ID does not resolve.
var ErrNodeNotFound = errors.New("node not found")

// ErrInvalidSnapshot wraps snapshot validation failures.
var ErrInvalidSnapshot = errors.New("invalid snapshot")
