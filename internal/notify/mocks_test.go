package notify

import (
	"context"
	"errors"
	"sync"
)

// testMockSender is a mock implementation of Sender for handler tests
type testMockSender struct {
	mu          sync.Mutex
	sent        []Notification
	err         error
	sawDeadline bool
}

func (m *testMockSender) Send(ctx context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	_, m.sawDeadline = ctx.Deadline()
	return m.err
}

func (m *testMockSender) calls() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, len(m.sent))
	copy(out, m.sent)
	return out
}

var errNotifierMissing = errors.New("notify-send: executable file not found in $PATH")
