package domain

import (
	"strings"
	"time"
)

// Role is an open set of administrative roles. Only RoleSuperAdmin is
// issued today.
type Role string

const RoleSuperAdmin Role = "super-admin"

// MinPasswordLength applies to rotated admin passwords.
const MinPasswordLength = 12

// Admin models an account allowed to manage site content.
type Admin struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	Name               string    `json:"name"`
	Role               Role      `json:"role"`
	MustChangePassword bool      `json:"mustChangePassword"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// NormalizeEmail lowercases and trims an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
