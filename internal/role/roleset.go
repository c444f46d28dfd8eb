package role

import (
	"sort"
	"strings"

	id "workpaper/pkg/domain"
)

// Role is one derived authorization grant: a role type scoped to a business
// context. BusinessID is nil for the global SEEKER role only.
type Role struct {
	Type       id.RoleType    `json:"type"`
	BusinessID *id.BusinessID `json:"business_id,omitempty"`
}

// key produces a canonical map key for set membership.
func (r Role) key() string {
	if r.BusinessID == nil {
		return string(r.Type)
	}
	return string(r.Type) + "@" + r.BusinessID.String()
}

// Set is an immutable-by-convention collection of derived roles. It is the
// output of derivation only; nothing ever writes roles back to storage.
type Set struct {
	roles map[string]Role
}

func NewSet(roles ...Role) Set {
	s := Set{roles: make(map[string]Role, len(roles))}
	for _, r := range roles {
		s.roles[r.key()] = r
	}
	return s
}

func (s Set) add(r Role) {
	s.roles[r.key()] = r
}

func (s Set) remove(r Role) {
	delete(s.roles, r.key())
}

// Has reports whether the set contains the role type in the given context.
// Pass nil businessID for the global context.
func (s Set) Has(roleType id.RoleType, businessID *id.BusinessID) bool {
	_, ok := s.roles[Role{Type: roleType, BusinessID: businessID}.key()]
	return ok
}

// HasInContext reports whether the set contains the role type scoped to the
// business.
func (s Set) HasInContext(roleType id.RoleType, businessID id.BusinessID) bool {
	return s.Has(roleType, &businessID)
}

// InContext returns the subset of roles scoped to the business, plus any
// global roles.
func (s Set) InContext(businessID id.BusinessID) Set {
	out := NewSet()
	for _, r := range s.roles {
		if r.BusinessID == nil || *r.BusinessID == businessID {
			out.add(r)
		}
	}
	return out
}

// IsEmpty reports whether no role has been derived.
func (s Set) IsEmpty() bool {
	return len(s.roles) == 0
}

func (s Set) Len() int {
	return len(s.roles)
}

// Roles returns the members in deterministic order: by business context, then
// by ascending authority. Derivation idempotence is checked against this
// ordering.
func (s Set) Roles() []Role {
	out := make([]Role, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		bi, bj := "", ""
		if out[i].BusinessID != nil {
			bi = out[i].BusinessID.String()
		}
		if out[j].BusinessID != nil {
			bj = out[j].BusinessID.String()
		}
		if bi != bj {
			return bi < bj
		}
		return out[i].Type.Authority() < out[j].Type.Authority()
	})
	return out
}

// Equal reports whether two sets contain exactly the same roles.
func (s Set) Equal(other Set) bool {
	if len(s.roles) != len(other.roles) {
		return false
	}
	for k := range s.roles {
		if _, ok := other.roles[k]; !ok {
			return false
		}
	}
	return true
}

// MaxAuthorityIn returns the highest-authority role type the set holds in the
// business context, or SEEKER when none.
func (s Set) MaxAuthorityIn(businessID id.BusinessID) id.RoleType {
	max := id.RoleSeeker
	for _, r := range s.roles {
		if r.BusinessID != nil && *r.BusinessID == businessID && r.Type.AtLeast(max) {
			max = r.Type
		}
	}
	return max
}

func (s Set) String() string {
	parts := make([]string, 0, len(s.roles))
	for _, r := range s.Roles() {
		parts = append(parts, r.key())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
