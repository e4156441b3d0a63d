// Package policy decides whether a principal may perform an action on a
// resource. Decisions are framework-independent; HTTP middleware translates
// them to 401/403 responses.
package policy

import "catalog-api/internal/domain"

// Action is a capability a caller may hold on a resource
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource is the kind of entity an action targets
type Resource string

const (
	ResourceProduct   Resource = "product"
	ResourceVariant   Resource = "variant"
	ResourceCategory  Resource = "category"
	ResourceInventory Resource = "inventory"
	ResourcePricing   Resource = "pricing"
)

// Principal is the authenticated caller as decoded from the access token
type Principal struct {
	UserID string
	Role   string
}

// Allowed reports whether the principal may perform action on resource.
// Reads are open to everyone, including anonymous callers; every mutation
// and inventory read requires the admin role.
func Allowed(p Principal, action Action, resource Resource) bool {
	if action == ActionRead && resource != ResourceInventory {
		return true
	}
	return p.Role == domain.RoleAdmin
}
