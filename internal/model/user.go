package model

// User is a credential record. The password hash never leaves the server;
// it is excluded from every serialized form.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Roles        []Role `json:"roles"`
}

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Well-known role names the authorization policy understands. Any other
// role name carries no permissions.
const (
	RoleAdmin    = "Admin"
	RoleStandard = "Standard"
)

// RoleIDs returns the ids of the user's roles, in order. This is the set
// snapshotted into issued tokens.
func (u User) RoleIDs() []string {
	ids := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		ids = append(ids, role.ID)
	}
	return ids
}
