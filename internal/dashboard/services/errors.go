package services

import (
	"errors"
	"fmt"
)

// ErrMissingTenant signals an identity context without a clinic id. The
// caller renders a configuration-error state; nothing is retried.
var ErrMissingTenant = errors.New("identity context is missing clinic id")

// UnrecognizedRoleError signals a role outside the four known values.
type UnrecognizedRoleError struct {
	Role string
}

func (e *UnrecognizedRoleError) Error() string {
	return fmt.Sprintf("unrecognized role %q", e.Role)
}
