package entities

import "time"

type Document struct {
	ID             string    `db:"id"`
	OwnerEmail     string    `db:"owner_email"`
	Name           string    `db:"name"`
	CurrentVersion int       `db:"current_version"`
	BlobKey        string    `db:"blob_key"`
	CreatedAt      time.Time `db:"created_at"`
}

type DocumentVersion struct {
	ID            int64     `db:"id"`
	DocumentID    string    `db:"document_id"`
	VersionNumber int       `db:"version_number"`
	BlobKey       string    `db:"blob_key"`
	CreatedAt     time.Time `db:"created_at"`
}
