package models

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RolePastor     = "pastor"
	RoleMediaTeam  = "media_team"
	RoleMember     = "member"
	RoleVisitor    = "visitor"
)

var Roles = []string{RoleSuperAdmin, RoleAdmin, RolePastor, RoleMediaTeam, RoleMember, RoleVisitor}

func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
