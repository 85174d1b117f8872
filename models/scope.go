package models

// ScopeKind tells the store which rows a caller may see.
type ScopeKind int

const (
	// ScopeAnonymous only reaches submissions without an owner.
	ScopeAnonymous ScopeKind = iota

	// ScopeUser only reaches submissions owned by Scope.UserID.
	ScopeUser

	// ScopeSystem is unrestricted. It is used by workers and operator tooling.
	ScopeSystem
)

// Scope restricts store operations on submissions. The zero value is the
// anonymous scope.
type Scope struct {
	Kind   ScopeKind
	UserID string
}

// AnonymousScope returns the scope of an unauthenticated caller.
func AnonymousScope() Scope {
	return Scope{Kind: ScopeAnonymous}
}

// UserScope returns the scope of an authenticated user.
func UserScope(userID string) Scope {
	return Scope{Kind: ScopeUser, UserID: userID}
}

// SystemScope returns the unrestricted scope.
func SystemScope() Scope {
	return Scope{Kind: ScopeSystem}
}

// Allows reports whether a submission owned by ownerID (nil for anonymous)
// is visible within the scope.
func (s Scope) Allows(ownerID *string) bool {
	switch s.Kind {
	case ScopeSystem:
		return true
	case ScopeUser:
		return ownerID != nil && *ownerID == s.UserID
	default:
		return ownerID == nil
	}
}
