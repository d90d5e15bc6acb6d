package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
)

// UploadService turns uploads into in-memory documents. Nothing is written to disk.
type UploadService interface {
	ReadUpload(file *multipart.FileHeader) (models.Document, error)
	ReadFiles(paths []string) ([]models.Document, error)
}

type uploadService struct {
	maxFileSize int64
}

func NewUploadService(maxFileSize int64) UploadService {
	return &uploadService{
		maxFileSize: maxFileSize,
	}
}

func (s *uploadService) ReadUpload(file *multipart.FileHeader) (models.Document, error) {
	if err := s.validate(file.Filename, file.Size); err != nil {
		return models.Document{}, err
	}

	src, err := file.Open()
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return models.Document{Filename: file.Filename, Content: content}, nil
}

// ReadFiles loads PDFs from the filesystem. Directories expand to the *.pdf
// files they contain, sorted by name; argument order is otherwise kept.
func (s *uploadService) ReadFiles(paths []string) ([]models.Document, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() && isPDF(e.Name()) {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			files = append(files, filepath.Join(p, name))
		}
	}

	docs := make([]models.Document, 0, len(files))
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", f, err)
		}
		if err := s.validate(f, info.Size()); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		docs = append(docs, models.Document{Filename: filepath.Base(f), Content: content})
	}

	return docs, nil
}

func (s *uploadService) validate(name string, size int64) error {
	if !isPDF(name) {
		return fmt.Errorf("%w: %s", ErrInvalidFileType, filepath.Ext(name))
	}
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, name, s.maxFileSize)
	}
	return nil
}

func isPDF(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".pdf"
}
