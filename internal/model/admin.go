package model

import (
	"time"

	"github.com/google/uuid"
)

// Admin represents an administrator account for the admin panel.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
