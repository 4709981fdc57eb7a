package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kendall-kelly/cleanrush-laundry-api/models"
)

// FileStore keeps the order collection in one JSON file, <dir>/<key>.json
type FileStore struct {
	path string
}

// NewFileStore creates the data directory if needed
func NewFileStore(dir, key string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, key+".json")}, nil
}

// Name identifies the backend
func (s *FileStore) Name() string { return "file" }

// Path returns the backing file path
func (s *FileStore) Path() string { return s.path }

// Load reads the collection file
func (s *FileStore) Load(ctx context.Context) ([]models.Order, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Order{}, nil
	}
	if err != nil {
		return nil, unavailable(s.Name(), "read", err)
	}
	return decodeOrders(data, s.Name()), nil
}

// Save writes to a temp file and renames it over the collection file
func (s *FileStore) Save(ctx context.Context, orders []models.Order) (err error) {
	data, err := encodeOrders(orders)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".orders-*.tmp")
	if err != nil {
		return unavailable(s.Name(), "create temp", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return unavailable(s.Name(), "write", err)
	}
	if err = tmp.Close(); err != nil {
		return unavailable(s.Name(), "close", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return unavailable(s.Name(), "rename", err)
	}
	return nil
}

// Clear removes the collection file
func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return unavailable(s.Name(), "remove", err)
	}
	return nil
}

// Ping checks that the data directory is still there
func (s *FileStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return unavailable(s.Name(), "stat", err)
	}
	return nil
}
