package models

import "time"

type Document struct {
	ID             string    `json:"id"`
	OwnerEmail     string    `json:"owner_email"`
	Name           string    `json:"name"`
	CurrentVersion int       `json:"current_version"`
	BlobKey        string    `json:"blob_key"`
	CreatedAt      time.Time `json:"created_at"`
}

type DocumentVersion struct {
	DocumentID    string    `json:"document_id"`
	VersionNumber int       `json:"version_number"`
	BlobKey       string    `json:"blob_key"`
	CreatedAt     time.Time `json:"created_at"`
}
