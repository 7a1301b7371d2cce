package domain

import (
	"encoding/json"
	"fmt"
)

// Role is a capability tag from the closed portal role enumeration.
type Role string

const (
	RoleUser       Role = "ROLE_PORTAL_USER"
	RoleAdmin      Role = "ROLE_PORTAL_ADMIN"
	RoleSuperadmin Role = "ROLE_PORTAL_SUPERADMIN"
)

// allRoles fixes the canonical order used whenever a RoleSet is listed.
var allRoles = [...]Role{RoleUser, RoleAdmin, RoleSuperadmin}

// bit returns the RoleSet member for r, or 0 for a tag outside the enumeration.
func (r Role) bit() RoleSet {
	for i, known := range allRoles {
		if known == r {
			return 1 << i
		}
	}
	return 0
}

// Valid reports whether r belongs to the enumeration.
func (r Role) Valid() bool { return r.bit() != 0 }

// ParseRole converts a stored or transmitted tag into a Role.
func ParseRole(tag string) (Role, error) {
	r := Role(tag)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, tag)
	}
	return r, nil
}

// RoleSet is a set of roles over the closed enumeration, one bit per role.
// Duplicates and unknown tags cannot be represented.
type RoleSet uint8

// NewRoleSet builds a set from the given roles. Tags outside the enumeration
// are dropped; use ParseRoleSet when the input is untrusted.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= r.bit()
	}
	return s
}

// ParseRoleSet builds a set from string tags, rejecting unknown ones.
func ParseRoleSet(tags []string) (RoleSet, error) {
	var s RoleSet
	for _, tag := range tags {
		r, err := ParseRole(tag)
		if err != nil {
			return 0, err
		}
		s |= r.bit()
	}
	return s, nil
}

// Has reports whether r is a member of s.
func (s RoleSet) Has(r Role) bool {
	b := r.bit()
	return b != 0 && s&b == b
}

// With returns s ∪ {r}.
func (s RoleSet) With(r Role) RoleSet { return s | r.bit() }

// Without returns s \ {r}.
func (s RoleSet) Without(r Role) RoleSet { return s &^ r.bit() }

// Intersects reports whether s and other share at least one role.
func (s RoleSet) Intersects(other RoleSet) bool { return s&other != 0 }

// IsEmpty reports whether s holds no role.
func (s RoleSet) IsEmpty() bool { return s == 0 }

// Roles lists the members of s in canonical order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(allRoles))
	for _, r := range allRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Strings lists the members of s as tags in canonical order.
func (s RoleSet) Strings() []string {
	roles := s.Roles()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func (s RoleSet) String() string { return fmt.Sprint(s.Strings()) }

// MarshalJSON encodes s as an array of tags.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON decodes an array of tags, rejecting unknown ones.
func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	parsed, err := ParseRoleSet(tags)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
