package domain

// CanGrantAdmin reports whether an actor holding roles may grant ADMIN to
// any user, the actor included. Only superadmins may.
func CanGrantAdmin(actor RoleSet) bool {
	return actor.Has(RoleSuperadmin)
}

// CanRevokeAdmin reports whether an actor holding roles may revoke ADMIN
// from any user. An actor who is only ADMIN may not.
func CanRevokeAdmin(actor RoleSet) bool {
	return actor.Has(RoleSuperadmin)
}

// ApplyGrantAdmin returns current ∪ {ADMIN}.
func ApplyGrantAdmin(current RoleSet) RoleSet {
	return current.With(RoleAdmin)
}

// ApplyRevokeAdmin returns current \ {ADMIN}.
func ApplyRevokeAdmin(current RoleSet) RoleSet {
	return current.Without(RoleAdmin)
}

// AdminPrivilegeChange is a requested mutation of ADMIN membership.
type AdminPrivilegeChange uint8

const (
	GrantAdmin AdminPrivilegeChange = iota + 1
	RevokeAdmin
)

func (c AdminPrivilegeChange) String() string {
	switch c {
	case GrantAdmin:
		return "grant_admin"
	case RevokeAdmin:
		return "revoke_admin"
	default:
		return "unknown"
	}
}

// Permitted evaluates the role predicate matching c against the actor.
func (c AdminPrivilegeChange) Permitted(actor RoleSet) bool {
	switch c {
	case GrantAdmin:
		return CanGrantAdmin(actor)
	case RevokeAdmin:
		return CanRevokeAdmin(actor)
	default:
		return false
	}
}

// Apply computes the role set that results from applying c to current.
func (c AdminPrivilegeChange) Apply(current RoleSet) RoleSet {
	switch c {
	case GrantAdmin:
		return ApplyGrantAdmin(current)
	case RevokeAdmin:
		return ApplyRevokeAdmin(current)
	default:
		return current
	}
}

// CanManage reports whether actor may edit the profile of, or deactivate,
// target. Users always manage themselves; nobody else manages a superadmin;
// superadmins manage everyone else; admins manage plain users only.
func CanManage(actor, target *User) bool {
	if actor.ID == target.ID {
		return true
	}
	if target.Roles.Has(RoleSuperadmin) {
		return false
	}
	if actor.Roles.Has(RoleSuperadmin) {
		return true
	}
	return actor.Roles.Has(RoleAdmin) && !target.Roles.Has(RoleAdmin)
}
