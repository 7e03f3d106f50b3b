package models

const (
	RoleRegular = "regular"
	RoleAdmin   = "admin"
)

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	PassHash []byte `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func IsValidRole(role string) bool {
	return role == RoleRegular || role == RoleAdmin
}
