package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/eren/driveshare/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new LocalStorage instance. basePath is the root
// directory on disk; baseURL is prepended to public IDs when building URLs.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveFile stores a file under a subdirectory of the base path. The returned
// PublicID is the relative path of the stored file.
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (*StoredFile, error) {
	if fileHeader == nil {
		return nil, fmt.Errorf("no file provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
			return nil, fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	// Unique filename to prevent collisions
	ext := filepath.Ext(fileHeader.Filename)
	uniqueFilename := uuid.New().String() + ext

	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	publicID := uniqueFilename
	if subPath != "" {
		publicID = path.Join(subPath, uniqueFilename)
	}

	stored := &StoredFile{
		URL:      ls.URLFor(publicID),
		PublicID: publicID,
		Filename: fileHeader.Filename,
		FileSize: fileHeader.Size,
	}

	logger.Info().
		Str("filename", fileHeader.Filename).
		Str("publicId", publicID).
		Msg("File saved successfully")
	return stored, nil
}

// DeleteFile removes a file by its public ID. A full URL produced by this
// store is accepted too. Deleting a missing file is not an error so the
// operation stays idempotent.
func (ls *LocalStorage) DeleteFile(publicID string) error {
	if publicID == "" {
		return nil
	}

	if ls.baseURL != "" {
		publicID = strings.TrimPrefix(publicID, ls.baseURL+"/")
	}

	cleaned := path.Clean(publicID)
	if cleaned == "." || cleaned == "/" || strings.HasPrefix(cleaned, "..") {
		return fmt.Errorf("invalid public id: %s", publicID)
	}

	physicalPath := filepath.Join(ls.basePath, filepath.FromSlash(cleaned))

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// URLFor returns the public URL for a stored public ID
func (ls *LocalStorage) URLFor(publicID string) string {
	if publicID == "" {
		return ""
	}
	if ls.baseURL != "" {
		return ls.baseURL + "/" + publicID
	}
	return path.Join("uploads", publicID)
}
