package models

import "time"

// FileInfo represents metadata about an uploaded notes file.
type FileInfo struct {
	ID          string    `json:"id" msgpack:"id"`
	Name        string    `json:"name" msgpack:"name"`
	Size        int64     `json:"size" msgpack:"size"`
	ContentType string    `json:"contentType,omitempty" msgpack:"contentType"`
	UploadedAt  time.Time `json:"uploadedAt" msgpack:"uploadedAt"`
	Status      string    `json:"status" msgpack:"status"` // "uploaded", "indexed", "no-text"
}

// File status values.
const (
	FileStatusUploaded = "uploaded"
	FileStatusIndexed  = "indexed"
	FileStatusNoText   = "no-text"
)
