package model

import (
	"time"
)

const (
	FileKindRom   = "rom"
	FileKindCover = "cover"
)

type File struct {
	ID          string    `db:"id" json:"id"`
	Kind        string    `db:"kind" json:"kind"`
	Filename    string    `db:"filename" json:"filename"`
	MimeType    string    `db:"mime_type" json:"mimeType"`
	Size        int64     `db:"size" json:"size"`
	StoragePath string    `db:"storage_path" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Path is the public URL the file is served from.
func (f *File) Path() string {
	return "/api/files/" + f.ID
}
