package model

import "time"

// Role is a permission tier a user may hold.
type Role string

const (
	RoleDiner      Role = "diner"
	RoleAdmin      Role = "admin"
	RoleFranchisee Role = "franchisee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDiner, RoleAdmin, RoleFranchisee:
		return true
	}
	return false
}

// User represents an authenticated user in the system.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"size:255;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Roles        []UserRole `json:"roles" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time  `json:"-"`
	UpdatedAt    time.Time  `json:"-"`
}

// UserRole is one role membership. ObjectID scopes franchisee roles to a franchise.
type UserRole struct {
	ID       uint `json:"-" gorm:"primaryKey"`
	UserID   uint `json:"-" gorm:"index;not null"`
	Role     Role `json:"role" gorm:"size:50;not null"`
	ObjectID uint `json:"objectId,omitempty"`
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}
