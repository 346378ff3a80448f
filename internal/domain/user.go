package domain

import (
	"context"
	"time"
)

// Role identifies what a user is allowed to do. The set is closed: every
// protected operation declares the exact roles it accepts, and there is no
// implicit ordering between roles.
type Role string

const (
	RoleStudent       Role = "student"
	RoleTeacherLevel1 Role = "teacher_level1"
	RoleTeacherLevel2 Role = "teacher_level2"
	RoleHOD           Role = "hod"
)

// Roles lists every valid role.
var Roles = []Role{RoleStudent, RoleTeacherLevel1, RoleTeacherLevel2, RoleHOD}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacherLevel1, RoleTeacherLevel2, RoleHOD:
		return true
	}
	return false
}

// User is a portal identity. Email is the sole login identifier and is
// stored normalized to lower case. PasswordHash only ever holds a bcrypt
// hash; no write path accepts a plaintext value for it.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for users. Implementations
// enforce email uniqueness at the storage layer so that concurrent creates
// for the same email resolve to exactly one winner.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id string, role Role) error
	List(ctx context.Context) ([]User, error)
	DeleteAll(ctx context.Context) (int64, error)
}
