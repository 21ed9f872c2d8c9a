package model

import (
	"time"

	"github.com/google/uuid"
)

// Student represents a registered student account.
type Student struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest is the payload for creating a student account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Phone    string `json:"phone" binding:"omitempty,min=6,max=20"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest is the payload for student and admin authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token   string   `json:"token"`
	Student *Student `json:"student,omitempty"`
	Admin   *Admin   `json:"admin,omitempty"`
}
