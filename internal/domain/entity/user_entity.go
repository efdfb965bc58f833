package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// PasswordHash holds a bcrypt digest and is never serialised.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     *string   `json:"username,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfileSlug  *string   `json:"profileSlug,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicHandle is the identifier used in public profile URLs: the slug when set, else the id.
func (u *User) PublicHandle() string {
	if u.ProfileSlug != nil && *u.ProfileSlug != "" {
		return *u.ProfileSlug
	}
	return u.ID
}
