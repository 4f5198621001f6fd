package mocks

import (
	"context"
	"sync"

	"github.com/user/vidmark/pkg/ports"
)

// Transcoder is a mock implementation of ports.Transcoder. By default inputs are returned
// unchanged.
type Transcoder struct {
	mu sync.Mutex

	EnsureDecodableFunc func(ctx context.Context, path string) (ports.Decodable, error)

	Calls []string
}

func (m *Transcoder) EnsureDecodable(ctx context.Context, path string) (ports.Decodable, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, path)
	m.mu.Unlock()
	if m.EnsureDecodableFunc != nil {
		return m.EnsureDecodableFunc(ctx, path)
	}
	return ports.Decodable{Path: path}, nil
}

var _ ports.Transcoder = (*Transcoder)(nil)
