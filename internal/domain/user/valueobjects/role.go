package valueobjects

type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleOwner || r == RoleAdmin
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
