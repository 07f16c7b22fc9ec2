package payments

import (
	"context"
	"fmt"
	"sync"
)

// MockClient records created sessions and serves them back, for tests.
type MockClient struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*Session

	// MarkPaid controls the payment status reported for new sessions.
	MarkPaid bool
}

func NewMockClient() *MockClient {
	return &MockClient{sessions: make(map[string]*Session), MarkPaid: true}
}

func (m *MockClient) CreateSession(_ context.Context, params SessionParams) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for _, li := range params.LineItems {
		total += li.UnitAmount * li.Quantity
	}
	if params.PercentOff > 0 {
		total -= total * int64(params.PercentOff) / 100
	}

	m.seq++
	status := PaymentStatusUnpaid
	if m.MarkPaid {
		status = PaymentStatusPaid
	}
	sess := &Session{
		ID:            fmt.Sprintf("cs_test_%d", m.seq),
		PaymentStatus: status,
		AmountTotal:   total,
		CustomerName:  "Test Customer",
		Address: Address{
			Line1:      "42 MG Road",
			City:       "Bengaluru",
			State:      "KA",
			PostalCode: "560001",
			Country:    "IN",
		},
		Metadata: params.Metadata,
	}
	m.sessions[sess.ID] = sess
	return sess, nil
}

func (m *MockClient) RetrieveSession(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("mock: session %s not found", id)
	}
	return sess, nil
}
