package entity

// Principal is the already-verified caller identity handed over by the auth
// collaborator: role plus the set of governments the caller may see.
type Principal struct {
	Username    string
	Role        string
	Governments []string
}

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Elevated principals bypass access-scope filtering entirely.
func (p Principal) Elevated() bool {
	return p.Role == RoleAdmin
}
