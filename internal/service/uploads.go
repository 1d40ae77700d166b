package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxImageSize = 5 * 1024 * 1024 // 5MB

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// ImageStore writes uploaded images below baseDir. Files are served back
// under /uploads with the same relative layout.
type ImageStore struct {
	baseDir string
}

func NewImageStore(baseDir string) *ImageStore {
	return &ImageStore{baseDir: baseDir}
}

// Save validates and stores fileHeader under <baseDir>/<segments...>/ with a
// generated name. It returns the public URL path and the file system path.
func (s *ImageStore) Save(fileHeader *multipart.FileHeader, segments ...string) (string, string, error) {
	if fileHeader.Size > MaxImageSize {
		return "", "", ErrFileSizeExceeded
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		return "", "", ErrInvalidFileFormat
	}

	dir := filepath.Join(append([]string{s.baseDir}, segments...)...)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	fileName := uuid.NewString() + ext
	filePath := filepath.Join(dir, fileName)

	src, err := fileHeader.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create file on server: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filePath)
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	publicPath := path.Join(append([]string{"/uploads"}, append(segments, fileName)...)...)
	return publicPath, filePath, nil
}

// Remove deletes a file written by Save. Used to undo an upload whose
// metadata could not be persisted.
func (s *ImageStore) Remove(filePath string) {
	os.Remove(filePath)
}
