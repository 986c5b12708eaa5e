package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrFilenameNotAllowed = errors.New("filename is not allowed")

var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".svg":  true,
}

// ImageStore keeps offer images on the local filesystem under one
// directory, served back via a static route.
type ImageStore struct {
	Dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ImageStore{Dir: dir}, nil
}

// SanitizeFilename strips any path component and rejects extensions we
// don't serve.
func SanitizeFilename(name string) (string, error) {
	name = filepath.Base(strings.ReplaceAll(name, " ", "_"))
	if name == "." || name == string(filepath.Separator) {
		return "", ErrFilenameNotAllowed
	}
	if !allowedImageExtensions[strings.ToLower(filepath.Ext(name))] {
		return "", ErrFilenameNotAllowed
	}
	return name, nil
}

// Save writes the image and returns the stored name. The caller is
// expected to remove it again if the offer record fails to persist.
func (s *ImageStore) Save(filename string, r io.Reader) (string, error) {
	name, err := SanitizeFilename(filename)
	if err != nil {
		return "", err
	}

	out, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	if err := out.Sync(); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	return name, nil
}

func (s *ImageStore) Remove(name string) error {
	name, err := SanitizeFilename(name)
	if err != nil {
		return err
	}
	return os.Remove(filepath.Join(s.Dir, name))
}

func (s *ImageStore) Path(name string) string {
	return filepath.Join(s.Dir, name)
}
