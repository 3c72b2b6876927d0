package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleSales  Role = "SALES"
	RoleVendor Role = "VENDOR"
	RoleClient Role = "CLIENT"
)

// Principal is the authenticated caller extracted from the access token.
type Principal struct {
	UserID uuid.UUID
	Name   string
	Role   Role
}

func (p Principal) IsAdmin() bool  { return p.Role == RoleAdmin }
func (p Principal) IsSales() bool  { return p.Role == RoleSales }
func (p Principal) IsVendor() bool { return p.Role == RoleVendor }
func (p Principal) IsClient() bool { return p.Role == RoleClient }

// CanEditQuotes reports whether the principal may create or modify quote
// versions. Vendors and clients get read-only access to their own data.
func (p Principal) CanEditQuotes() bool {
	return p.IsAdmin() || p.IsSales()
}
