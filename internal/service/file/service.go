package file

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/storage"
)

type FileService interface {
	// ArchiveReport stores an exported report under the user's folder and returns its path
	ArchiveReport(ctx context.Context, userID string, filename string, file io.Reader, contentType string) (string, error)

	// Generic operations
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string) (string, error)
}

type fileServiceImpl struct {
	storage   storage.FileStorage
	urlExpiry time.Duration
	now       func() time.Time
}

func NewFileService(storage storage.FileStorage, urlExpiry time.Duration) FileService {
	return &fileServiceImpl{
		storage:   storage,
		urlExpiry: urlExpiry,
		now:       time.Now,
	}
}

// ArchiveReport implements FileService.
func (s *fileServiceImpl) ArchiveReport(ctx context.Context, userID string, filename string, file io.Reader, contentType string) (string, error) {
	if userID == "" || strings.ContainsAny(userID, "/\\") {
		return "", fmt.Errorf("%w: user id %q", storage.ErrInvalidPath, userID)
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext != ".pdf" && ext != ".xlsx" {
		return "", fmt.Errorf("invalid file type: only pdf, xlsx allowed")
	}

	// Generate unique filename
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	uniqueID := uuid.New().String()[:8]
	newFilename := fmt.Sprintf("%s-%s-%s%s", base, s.now().UTC().Format("20060102T150405"), uniqueID, ext)
	key := path.Join("reports", userID, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, file, key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}
	return uploadedPath, nil
}

// DeleteFile implements FileService.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL implements FileService.
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string) (string, error) {
	return s.storage.GetURL(ctx, path, s.urlExpiry)
}
