package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRequesterIsNotConstructed = errors.New(
	"Requester must be created via NewRequester constructor",
)

// Role is the authenticated caller's role as asserted by the request layer.
// The core trusts it verbatim.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleDriver   Role = "driver"
)

// Validate checks the role against the known tokens.
func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleOperator, RoleDriver:
		return nil
	default:
		return fmt.Errorf("%q is not a valid role", string(r))
	}
}

// Requester identifies the authenticated caller of a command.
//
// AccountID is the account the caller authenticated as, not a driver ID:
// driver-role authorization compares it against the assigned driver's linked
// account.
type Requester struct {
	accountID kernel.UUID
	role      Role

	guard guard.ConstructorGuard
}

// NewRequester creates a requester identity from the authenticated account
// and role supplied by the request layer.
func NewRequester(accountID kernel.UUID, role Role) (Requester, error) {
	if err := accountID.Validate(); err != nil {
		return Requester{}, err
	}
	if err := role.Validate(); err != nil {
		return Requester{}, err
	}

	return Requester{
		accountID: accountID,
		role:      role,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the requester was created through the constructor.
func (r Requester) Validate() error {
	return r.guard.Validate(ErrRequesterIsNotConstructed)
}

// AccountID returns the authenticated account identifier.
func (r Requester) AccountID() kernel.UUID {
	return r.accountID
}

// Role returns the caller's role.
func (r Requester) Role() Role {
	return r.role
}

// IsDriver reports whether the caller holds the driver role. Drivers get the
// restricted authorization path; operators and admins may act on any job.
func (r Requester) IsDriver() bool {
	return r.role == RoleDriver
}
