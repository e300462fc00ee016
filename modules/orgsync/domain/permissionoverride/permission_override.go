package permissionoverride

import "github.com/google/uuid"

// PermissionOverride grants and revokes permissions for a role within one
// organization, on top of the role's base permission set. One row per
// (organization, role).
type PermissionOverride struct {
	ID      uuid.UUID
	OrgID   uuid.UUID
	Role    string
	Granted []string
	Revoked []string
}
