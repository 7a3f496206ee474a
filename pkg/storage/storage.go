package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrInvalidKey = errors.New("storage: invalid object key")

// Store persists uploaded files and returns a URL clients can fetch them from.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL reverses Put's URL; ok is false for URLs this store did not produce.
	KeyFromURL(url string) (string, bool)
}

// LocalStore writes files under a directory that the HTTP layer serves at
// urlPrefix.
type LocalStore struct {
	root      string
	urlPrefix string
}

func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	full, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return s.urlPrefix + "/" + key, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, s.urlPrefix+"/") {
		return "", false
	}
	return strings.TrimPrefix(url, s.urlPrefix+"/"), true
}

func (s *LocalStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// ObjectKey builds a collision-free key under folder for the given owner.
func ObjectKey(folder, ownerID, uniqueID, ext string) string {
	return fmt.Sprintf("%s/%s/%s%s", folder, ownerID, uniqueID, strings.ToLower(ext))
}
