package entities

import "time"

type AccessGrant struct {
	ID         string    `db:"id"`
	DocumentID string    `db:"document_id"`
	UserEmail  string    `db:"user_email"`
	Token      string    `db:"token"`
	ExpiresAt  time.Time `db:"expires_at"`
	Revoked    bool      `db:"revoked"`
	CreatedAt  time.Time `db:"created_at"`
}
