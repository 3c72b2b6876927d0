package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore keeps uploaded attachments on local disk and hands out the
// URLs the router serves them under.
type FileStore struct {
	dir     string
	baseURL string
}

func NewFileStore(dir, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

// Save writes the content under a collision-free name and returns the
// public URL.
func (s *FileStore) Save(name string, content []byte) (string, error) {
	ext := filepath.Ext(name)
	fileName := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, fileName), content, 0o644); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return s.baseURL + "/" + fileName, nil
}

// Remove deletes the file behind a URL previously returned by Save.
// Missing files are not an error: the URL may point at an older store.
func (s *FileStore) Remove(url string) error {
	fileName := path.Base(url)
	if fileName == "." || fileName == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, fileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
