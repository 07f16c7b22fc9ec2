package images

import (
	"context"
	"fmt"
	"sync"
)

// MockUploader is an in-memory Uploader for tests.
type MockUploader struct {
	mu        sync.Mutex
	seq       int
	Destroyed []string
}

func (m *MockUploader) Upload(_ context.Context, _, folder string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	publicID := fmt.Sprintf("%s/img_%d", folder, m.seq)
	return "https://images.test/" + publicID + ".jpg", publicID, nil
}

func (m *MockUploader) Destroy(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Destroyed = append(m.Destroyed, publicID)
	return nil
}
