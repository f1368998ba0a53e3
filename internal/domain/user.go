package domain

import "time"

type UserRole string

const (
	RoleContributor    UserRole = "Contributor"
	RoleProjectManager UserRole = "ProjectManager"
	RoleAdmin          UserRole = "Admin"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         UserRole  `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
