package condition

import "fmt"

// DefaultPrincipal is the bound query parameter used when a permission
// policy's principal is left unspecified.
const DefaultPrincipal = "@email"

// PermissionType selects which document field(s) a permission clause tests.
type PermissionType string

const (
	PermissionOwner       PermissionType = "OWNER"
	PermissionPermissions PermissionType = "PERMISSIONS"
	PermissionBoth        PermissionType = "BOTH"
)

// PermissionPolicy is a property of a single Conjunction or Disjunction, not
// of the whole query — this is what lets one corpus be searched permissively
// inside a larger bypassed group (knowledge-base selections are the
// canonical example; see profile.KnowledgeBase).
type PermissionPolicy struct {
	Require   bool
	Principal string
	Type      PermissionType
	Bypass    bool
}

// clause renders the policy's standalone permission fragment. Callers must
// check Require and !Bypass before splicing it in; clause itself does not
// re-check those flags.
func (p PermissionPolicy) clause() string {
	principal := p.Principal
	if principal == "" {
		principal = DefaultPrincipal
	}
	switch p.Type {
	case PermissionOwner:
		return fmt.Sprintf("owner contains '%s'", principal)
	case PermissionPermissions:
		return fmt.Sprintf("permissions contains '%s'", principal)
	default:
		return fmt.Sprintf("(owner contains '%s' or permissions contains '%s')", principal, principal)
	}
}

// PermOpt configures a PermissionPolicy as it is attached to And/Or at
// construction time.
type PermOpt func(*PermissionPolicy)

func principalOf(principal []string) string {
	if len(principal) > 0 && principal[0] != "" {
		return principal[0]
	}
	return DefaultPrincipal
}

// WithOwnerPermissions requires an `owner contains '<principal>'` clause.
// principal defaults to DefaultPrincipal when omitted.
func WithOwnerPermissions(principal ...string) PermOpt {
	return func(p *PermissionPolicy) {
		p.Require = true
		p.Type = PermissionOwner
		p.Principal = principalOf(principal)
	}
}

// WithPermissionsField requires a `permissions contains '<principal>'` clause.
func WithPermissionsField(principal ...string) PermOpt {
	return func(p *PermissionPolicy) {
		p.Require = true
		p.Type = PermissionPermissions
		p.Principal = principalOf(principal)
	}
}

// WithBothPermissions requires an owner-or-permissions clause.
func WithBothPermissions(principal ...string) PermOpt {
	return func(p *PermissionPolicy) {
		p.Require = true
		p.Type = PermissionBoth
		p.Principal = principalOf(principal)
	}
}

// WithoutPermissions explicitly bypasses permission scoping for this group.
// Bypass dominates Require: a group bypassed this way never emits a
// permission clause even if a Require option is also supplied.
func WithoutPermissions() PermOpt {
	return func(p *PermissionPolicy) {
		p.Bypass = true
	}
}
