package models

import "time"

// AccessGrant authorizes a reviewer to download a document until the grant
// is revoked or expires. The token is a bearer capability and is returned in
// cleartext exactly once, at issue time.
type AccessGrant struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	UserEmail  string    `json:"user_email"`
	Token      string    `json:"-"`
	ExpiresAt  time.Time `json:"expires_at"`
	Revoked    bool      `json:"revoked"`
	CreatedAt  time.Time `json:"created_at"`
}

// Active reports whether the grant still authorizes downloads at the given
// moment. Revocation is one-way; expiry does not delete the row.
func (g *AccessGrant) Active(now time.Time) bool {
	return !g.Revoked && now.Before(g.ExpiresAt)
}
