package model

import "time"

// Attachment is file metadata for evidence uploaded against a finding
// (`attachments` table) or a report uploaded against an audit
// (`audit_attachments` table). The two tables share a shape, so the same
// struct backs both; OwnerID is the finding id or audit id respectively.
//
// The file on disk and the metadata row are not transactionally linked:
// deleting the row removes the file best effort only.
type Attachment struct {
	ID         uint64    `json:"id"`
	OwnerID    uint64    `json:"owner_id"`
	Path       string    `json:"file_path"`
	Name       string    `json:"file_name"`
	MimeType   string    `json:"file_type"`
	Size       int64     `json:"file_size"`
	UploadedBy uint64    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}
