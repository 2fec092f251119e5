package models

import "time"

// Profile represents a calendar owner stored in the profiles table. Slug is
// the public booking-page identifier; Timezone is the IANA zone all business
// hours are entered in.
type Profile struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	DisplayName  string     `db:"display_name" json:"display_name"`
	Slug         string     `db:"slug" json:"slug"`
	Timezone     string     `db:"timezone" json:"timezone"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ProfileInfo is the public subset of a profile returned to clients.
type ProfileInfo struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Slug        string `json:"slug"`
	Timezone    string `json:"timezone"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
