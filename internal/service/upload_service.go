package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"blogforge-backend/internal/storage"
	"blogforge-backend/pkg/logger"
	"blogforge-backend/pkg/validator"
)

// UploadService stores uploaded media on local disk, or in the object store
// when one is configured.
type UploadService struct {
	uploadDir    string
	maxSize      int64
	allowedTypes []string
	objectStore  *storage.ObjectStore
}

func NewUploadService(uploadDir string, maxSize int64, objectStore *storage.ObjectStore) *UploadService {
	if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
		os.MkdirAll(uploadDir, 0755)
	}

	return &UploadService{
		uploadDir:    uploadDir,
		maxSize:      maxSize,
		allowedTypes: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
		objectStore:  objectStore,
	}
}

func (s *UploadService) UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file.Size > s.maxSize {
		return "", errors.New("file size exceeds maximum allowed size")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !s.isAllowedType(ext) {
		return "", errors.New("file type not allowed")
	}

	filename := s.generateFilename(file.Filename, ext)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if s.objectStore != nil {
		contentType := file.Header.Get("Content-Type")
		if err := s.objectStore.Upload(ctx, filename, src, file.Size, contentType); err != nil {
			return "", err
		}
		return s.objectStore.URL(filename), nil
	}

	filePath := filepath.Join(s.uploadDir, filename)
	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filePath)
		return "", err
	}

	return "/uploads/" + filename, nil
}

func (s *UploadService) DeleteImage(ctx context.Context, url string) error {
	filename := filepath.Base(url)
	if filename == "." || filename == "/" {
		return errors.New("invalid image url")
	}

	if s.objectStore != nil {
		err := s.objectStore.Delete(ctx, filename)
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil
		}
		return err
	}

	filePath := filepath.Join(s.uploadDir, filename)
	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// CleanupOrphans removes local files older than the cutoff that no longer
// appear in any referenced URL set.
func (s *UploadService) CleanupOrphans(referenced map[string]bool, olderThan time.Duration) (int, error) {
	if s.objectStore != nil {
		return 0, nil
	}

	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || referenced["/uploads/"+entry.Name()] {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(s.uploadDir, entry.Name())); err != nil {
			logger.Error(err, "Failed to remove orphaned upload", map[string]interface{}{
				"file": entry.Name(),
			})
			continue
		}
		removed++
	}

	return removed, nil
}

func (s *UploadService) isAllowedType(ext string) bool {
	for _, allowed := range s.allowedTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (s *UploadService) generateFilename(originalName, ext string) string {
	base := validator.SanitizeFilename(strings.TrimSuffix(filepath.Base(originalName), ext))
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%s-%s%s", base, uuid.New().String()[:8], ext)
}
