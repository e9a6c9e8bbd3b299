package model

import "time"

// User is an authenticated account. Every login identity is a User;
// an Employee row may additionally be linked to one via user_id.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName returns the display name used across record views.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=6,max=128"`
	FirstName string `json:"firstName" binding:"required,min=1,max=100"`
	LastName  string `json:"lastName" binding:"required,min=1,max=100"`
	Role      string `json:"role" binding:"omitempty,oneof=ADMIN EMPLOYEE"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token        string       `json:"token"`
	User         *User        `json:"user"`
	Capabilities []Capability `json:"capabilities"`
}
