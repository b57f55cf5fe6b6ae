package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUploadSize bounds product image uploads at 5 MiB.
const maxUploadSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Service stores uploaded images on local disk under a configured
// directory and hands back the public path they are served from.
type Service interface {
	SaveImage(filename string, r io.Reader) (string, error)
}

type service struct {
	dir string
	log *zap.Logger
}

func NewService(dir string, log *zap.Logger) (Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &service{dir: dir, log: log}, nil
}

func (s *service) SaveImage(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(r, maxUploadSize+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if n > maxUploadSize {
		os.Remove(path)
		return "", fmt.Errorf("image exceeds %d bytes", maxUploadSize)
	}

	s.log.Info("image stored", zap.String("file", name), zap.Int64("bytes", n))
	return "/uploads/" + name, nil
}
