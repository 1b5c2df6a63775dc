package models

import "gorm.io/gorm"

// Role is the permission tier of a user. Only the constants below are valid.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCashier:
		return true
	}
	return false
}

// Dashboard is the landing page for the role.
func (r Role) Dashboard() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleCashier:
		return "/cashier"
	}
	return "/login"
}

type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	Role         Role   `gorm:"type:varchar(10);index;not null"`

	Sales []Sale
}
