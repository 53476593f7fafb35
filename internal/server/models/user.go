package models

import "time"

// Role is a user's permission group.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleKitchenStaff     Role = "kitchen_staff"
	RoleInventoryManager Role = "inventory_manager"
	RoleDeliveryStaff    Role = "delivery_staff"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleKitchenStaff, RoleInventoryManager, RoleDeliveryStaff}

// Valid reports whether r is one of Roles.
func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// User is a stored account. PasswordHash never leaves the server; use Safe
// for anything sent to a client.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Name         *string
	CreatedAt    time.Time
}

// SafeUser is the client-facing projection of User.
type SafeUser struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Role  Role    `json:"role"`
	Name  *string `json:"name"`
}

// Safe returns u without its password hash.
func (u *User) Safe() SafeUser {
	return SafeUser{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name}
}
