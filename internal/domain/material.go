package domain

import "time"

// Material is study material metadata. FileURL points at external object
// storage, or an external link when Link is set instead.
type Material struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Module      string    `json:"module,omitempty"`
	Year        *int      `json:"year,omitempty"`
	Type        string    `json:"type,omitempty"`
	Description string    `json:"description,omitempty"`
	FileURL     string    `json:"file_url,omitempty"`
	Link        string    `json:"link,omitempty"`
	Downloads   int       `json:"downloads"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UploaderID  *int64    `json:"uploader_id,omitempty"`
}

// MaterialFilter narrows the material listing.
type MaterialFilter struct {
	Module string
	Type   string
	Year   *int
	Search string
	Page   int
	Limit  int
}

// Normalize applies the same pagination clamps as the feed.
func (f *MaterialFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultFeedLimit
	}
	if f.Limit > MaxFeedLimit {
		f.Limit = MaxFeedLimit
	}
}

// Offset returns the row offset for the normalized page/limit pair.
func (f MaterialFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// CreateMaterialInput is the write-side DTO for an upload record.
type CreateMaterialInput struct {
	Title       string
	Module      string
	Year        *int
	Type        string
	Description string
	FileURL     string
	Link        string
	UploaderID  int64
}
