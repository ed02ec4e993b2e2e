package model

import "time"

type Role string

const (
	RoleHR    Role = "hr"
	RoleAdmin Role = "admin"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// StaffUser is an HR staff member who can sign in and register interns.
type StaffUser struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName"`
	Role        Role       `json:"role"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// Actor is the identity a registration is stamped with.
type Actor struct {
	ID          string
	DisplayName string
}

func (u *StaffUser) Actor() Actor {
	name := u.DisplayName
	if name == "" {
		name = u.Email
	}
	return Actor{ID: u.ID, DisplayName: name}
}
