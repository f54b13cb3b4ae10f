package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidImage = errors.New("invalid image file")

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ImageService stores profile photos on local disk and serves them back
// under /uploads.
type ImageService struct {
	uploadDir string
}

func NewImageService(uploadDir string) *ImageService {
	os.MkdirAll(uploadDir, 0755)
	return &ImageService{uploadDir: uploadDir}
}

// SavePhoto writes the uploaded file under a fresh uuid name and returns the
// public URL path.
func (s *ImageService) SavePhoto(filename string, file io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	if !allowedImageExts[ext] {
		return "", ErrInvalidImage
	}

	newFilename := uuid.New().String() + ext
	filePath := filepath.Join(s.uploadDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return "/uploads/" + newFilename, nil
}
