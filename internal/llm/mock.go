package llm

import (
	"context"
	"strings"
	"sync"
)

// MockClient is a scriptable Client for tests. Responses are consumed in
// order; the last one repeats. When Err is set every call fails with it.
type MockClient struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Requests  []Request
	// ChunkSize controls how CompleteStream slices the response into
	// deltas; <= 0 streams the whole response in one delta.
	ChunkSize int
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) next(req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	resp := m.Responses[0]
	if len(m.Responses) > 1 {
		m.Responses = m.Responses[1:]
	}
	return resp, nil
}

func (m *MockClient) Complete(_ context.Context, req Request) (string, error) {
	return m.next(req)
}

func (m *MockClient) CompleteStream(_ context.Context, req Request, onDelta StreamFunc) (string, error) {
	resp, err := m.next(req)
	if err != nil {
		return "", err
	}
	if onDelta != nil {
		size := m.ChunkSize
		if size <= 0 {
			size = len(resp)
		}
		var acc strings.Builder
		runes := []rune(resp)
		for i := 0; i < len(runes); i += size {
			end := i + size
			if end > len(runes) {
				end = len(runes)
			}
			acc.WriteString(string(runes[i:end]))
			onDelta(acc.String())
		}
	}
	return resp, nil
}

func (m *MockClient) Model() string {
	return "mock"
}
