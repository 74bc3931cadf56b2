package model

import "time"

// MaterialType classifies uploaded learning material.
type MaterialType string

const (
	MaterialPDF   MaterialType = "pdf"
	MaterialVideo MaterialType = "video"
	MaterialDoc   MaterialType = "doc"
	MaterialImage MaterialType = "image"
)

// Material is a learning material entry.
type Material struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        MaterialType `json:"type"`
	Size        int64        `json:"size"`
	Downloads   int          `json:"downloads"`
	CreatedAt   time.Time    `json:"created_at"`
	File        string       `json:"file"`
	FileURL     string       `json:"file_url"`
	CreatedBy   int64        `json:"created_by"`
	Cover       string       `json:"cover,omitempty"`
	Format      string       `json:"format,omitempty"`
}

// MaterialFilter narrows a material listing.
type MaterialFilter struct {
	Search string
	Type   MaterialType
}

// MaterialUpload is the multipart payload for creating or replacing a material.
// File is optional on update.
type MaterialUpload struct {
	Title       string       `validate:"required,max=200"`
	Description string       `validate:"max=2000"`
	Type        MaterialType `validate:"required,oneof=pdf video doc image"`
	FileName    string       `validate:"required_with=File"`
	File        []byte
}
