package models

import "time"

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Image     *Image    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Image holds the organization logo blob as stored.
type Image struct {
	ID          string `json:"id"`
	ContentType string `json:"content_type"`
	Blob        []byte `json:"-"`
}
