package filestorage

import (
	"mime/multipart"
)

// StoredFile describes a persisted upload. PublicID is the stable handle used
// to delete the file later; URL is what clients fetch.
type StoredFile struct {
	URL      string
	PublicID string
	Filename string
	FileSize int64
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFile stores a file under a subdirectory and returns its handle
	SaveFile(fileHeader *multipart.FileHeader, subPath string) (*StoredFile, error)

	// DeleteFile removes a file by its public ID. Deleting a missing file is not an error.
	DeleteFile(publicID string) error

	// URLFor returns the public URL for a stored public ID
	URLFor(publicID string) string
}
