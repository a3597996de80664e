package mocks

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/content-graph-api/internal/service"
)

// MockStorage keeps uploads in memory
type MockStorage struct {
	mu      sync.Mutex
	Files   map[string][]byte
	MaxSize int64
	// SaveError, when set, is returned by Save
	SaveError error
	Removed   []string
}

// Verify interface compliance
var _ service.Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{Files: make(map[string][]byte)}
}

func (m *MockStorage) Save(name string, content io.Reader) (int64, error) {
	if m.SaveError != nil {
		return 0, m.SaveError
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, content)
	if err != nil {
		return 0, err
	}
	if m.MaxSize > 0 && n > m.MaxSize {
		return 0, service.ErrTooLarge
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[name] = buf.Bytes()
	return n, nil
}

func (m *MockStorage) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "" {
		return errors.New("empty name")
	}
	delete(m.Files, name)
	m.Removed = append(m.Removed, name)
	return nil
}

// Has reports whether name is stored
func (m *MockStorage) Has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Files[name]
	return ok
}
