package dto

import "time"

type DocumentResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	OwnerEmail     string    `json:"owner"`
	CurrentVersion int       `json:"current_version"`
	CreatedAt      time.Time `json:"created"`
}

type GrantRequest struct {
	Email    string `json:"email"`
	TTLHours int    `json:"ttl_hours"`
}

type GrantResponse struct {
	Token      string    `json:"token"`
	ReviewLink string    `json:"review_link"`
	ExpiresAt  time.Time `json:"expires_at"`
}
