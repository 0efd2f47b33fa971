// mock_storage.go - Mock storage implementation for testing
package testutil

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
	"github.com/mansimran2992/ai-tutor-bot/internal/storage"
)

// MockStorage implements storage.Store in memory.
type MockStorage struct {
	mu       sync.RWMutex
	files    map[string]*models.FileInfo
	fileData map[string][]byte

	// SaveErr, when set, is returned by Save.
	SaveErr error
	// StatusErr, when set, is returned by SetStatus.
	StatusErr error
}

var _ storage.Store = (*MockStorage)(nil)

// NewMockStorage creates an empty mock storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		files:    make(map[string]*models.FileInfo),
		fileData: make(map[string][]byte),
	}
}

func (m *MockStorage) Save(name string, r io.Reader) (*models.FileInfo, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return m.AddFile(generateTestID(), name, data), nil
}

// AddFile stores data under a fixed id.
func (m *MockStorage) AddFile(id, name string, data []byte) *models.FileInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := &models.FileInfo{
		ID:         id,
		Name:       name,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
		Status:     models.FileStatusUploaded,
	}
	m.files[id] = info
	m.fileData[id] = data
	c := *info
	return &c
}

// Data returns the stored bytes for id.
func (m *MockStorage) Data(id string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.fileData[id]
	return d, ok
}

func (m *MockStorage) Get(id string) (*models.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, ok := m.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	c := *file
	return &c, nil
}

func (m *MockStorage) List(limit int) ([]*models.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]*models.FileInfo, 0, len(m.files))
	for _, file := range m.files {
		c := *file
		files = append(files, &c)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].UploadedAt.After(files[j].UploadedAt) })
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}

func (m *MockStorage) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.files[id]; !exists {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}

	delete(m.files, id)
	delete(m.fileData, id)
	return nil
}

func (m *MockStorage) Rename(id string, newName string) (*models.FileInfo, error) {
	return m.update(id, func(f *models.FileInfo) { f.Name = newName })
}

func (m *MockStorage) SetStatus(id string, status string) (*models.FileInfo, error) {
	if m.StatusErr != nil {
		return nil, m.StatusErr
	}
	return m.update(id, func(f *models.FileInfo) { f.Status = status })
}

func (m *MockStorage) update(id string, fn func(*models.FileInfo)) (*models.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	file, ok := m.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	fn(file)
	c := *file
	return &c, nil
}

func (m *MockStorage) GetFilePath(id string) (string, error) {
	if _, err := m.Get(id); err != nil {
		return "", err
	}
	return "/mock/path/" + id, nil
}

var idCounter atomic.Int64

func generateTestID() string {
	return fmt.Sprintf("test-id-%d", idCounter.Add(1))
}

// ErrInjected is a ready-made failure for stubs.
var ErrInjected = errors.New("injected failure")
