package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/skillsync/internal/config"
)

type StorageService interface {
	// SaveFile stores data under a unique name namespaced by ownerID and
	// returns that name plus the backend location it was written to.
	SaveFile(ctx context.Context, ownerID uuid.UUID, originalName string, data []byte) (string, string, error)
	// DeleteFile removes a stored file; a file that is already gone is not an error.
	DeleteFile(ctx context.Context, filename string) error
	EnsureReady(ctx context.Context) error
	Backend() string
}

// NewStorage selects the backend configured by STORAGE_BACKEND.
func NewStorage(ctx context.Context, cfg config.StorageConfig) (StorageService, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStorage(cfg.UploadPath), nil
	case "s3":
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

type localStorage struct {
	uploadPath string
}

func NewLocalStorage(uploadPath string) StorageService {
	return &localStorage{
		uploadPath: uploadPath,
	}
}

func (s *localStorage) Backend() string {
	return "local"
}

func (s *localStorage) EnsureReady(ctx context.Context) error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *localStorage) SaveFile(ctx context.Context, ownerID uuid.UUID, originalName string, data []byte) (string, string, error) {
	uniqueFilename := uniqueObjectName(ownerID, originalName)
	filePath := s.filePath(uniqueFilename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *localStorage) DeleteFile(ctx context.Context, filename string) error {
	if err := os.Remove(s.filePath(filename)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *localStorage) filePath(filename string) string {
	return filepath.Join(s.uploadPath, filepath.Base(filename))
}

func uniqueObjectName(ownerID uuid.UUID, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s_%s%s", ownerID.String(), uuid.New().String(), ext)
}
