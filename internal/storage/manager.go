package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mansimran2992/ai-tutor-bot/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotFound is returned for unknown file IDs.
var ErrNotFound = errors.New("file not found")

const indexFile = "index.msgpack"

// Store defines the interface for uploaded notes storage.
type Store interface {
	Save(name string, r io.Reader) (*models.FileInfo, error)
	Get(id string) (*models.FileInfo, error)
	List(limit int) ([]*models.FileInfo, error)
	Delete(id string) error
	Rename(id string, newName string) (*models.FileInfo, error)
	SetStatus(id string, status string) (*models.FileInfo, error)
	GetFilePath(id string) (string, error)
}

// LocalStore implements Store using the local filesystem. Metadata is kept in
// memory and mirrored to a msgpack index so uploads survive a restart.
type LocalStore struct {
	mu        sync.RWMutex
	uploadDir string
	files     map[string]*models.FileInfo
}

// NewLocalStore creates a new LocalStore, loading any existing index.
func NewLocalStore(uploadDir string) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	s := &LocalStore{
		uploadDir: uploadDir,
		files:     make(map[string]*models.FileInfo),
	}
	if err := s.loadIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save saves a file to the local filesystem.
func (s *LocalStore) Save(name string, r io.Reader) (*models.FileInfo, error) {
	id := uuid.New().String()
	path := filepath.Join(s.uploadDir, id)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	info := &models.FileInfo{
		ID:         id,
		Name:       name,
		Size:       size,
		UploadedAt: time.Now().UTC(),
		Status:     models.FileStatusUploaded,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = info
	if err := s.saveIndexLocked(); err != nil {
		delete(s.files, id)
		os.Remove(path)
		return nil, err
	}

	return cloneInfo(info), nil
}

// Get retrieves file metadata by ID.
func (s *LocalStore) Get(id string) (*models.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return cloneInfo(info), nil
}

// List returns the most recent files.
func (s *LocalStore) List(limit int) ([]*models.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.FileInfo, 0, len(s.files))
	for _, info := range s.files {
		list = append(list, cloneInfo(info))
	}

	// Sort by UploadedAt desc
	sort.Slice(list, func(i, j int) bool {
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	return list, nil
}

// Delete removes a file from storage.
func (s *LocalStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	path := filepath.Join(s.uploadDir, id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting file: %w", err)
	}

	delete(s.files, id)
	return s.saveIndexLocked()
}

// Rename updates the display name of a file.
func (s *LocalStore) Rename(id string, newName string) (*models.FileInfo, error) {
	return s.update(id, func(info *models.FileInfo) { info.Name = newName })
}

// SetStatus records the indexing status of a file.
func (s *LocalStore) SetStatus(id string, status string) (*models.FileInfo, error) {
	return s.update(id, func(info *models.FileInfo) { info.Status = status })
}

func (s *LocalStore) update(id string, fn func(*models.FileInfo)) (*models.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	fn(info)
	if err := s.saveIndexLocked(); err != nil {
		return nil, err
	}
	return cloneInfo(info), nil
}

// GetFilePath returns the absolute path to a file.
func (s *LocalStore) GetFilePath(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.files[id]; !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return filepath.Join(s.uploadDir, id), nil
}

func (s *LocalStore) loadIndex() error {
	data, err := os.ReadFile(filepath.Join(s.uploadDir, indexFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading index: %w", err)
	}

	var files []*models.FileInfo
	if err := msgpack.Unmarshal(data, &files); err != nil {
		return fmt.Errorf("decoding index: %w", err)
	}
	for _, info := range files {
		// Drop entries whose blob has gone missing.
		if _, err := os.Stat(filepath.Join(s.uploadDir, info.ID)); err != nil {
			continue
		}
		s.files[info.ID] = info
	}
	return nil
}

// saveIndexLocked writes the index atomically. Caller must hold s.mu.
func (s *LocalStore) saveIndexLocked() error {
	files := make([]*models.FileInfo, 0, len(s.files))
	for _, info := range s.files {
		files = append(files, info)
	}
	data, err := msgpack.Marshal(files)
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	tmp := filepath.Join(s.uploadDir, indexFile+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.uploadDir, indexFile)); err != nil {
		return fmt.Errorf("replacing index: %w", err)
	}
	return nil
}

func cloneInfo(info *models.FileInfo) *models.FileInfo {
	c := *info
	return &c
}
