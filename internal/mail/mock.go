package mail

import "sync"

// MockMailer collects sent messages for assertions in tests.
type MockMailer struct {
	mu   sync.Mutex
	Sent []SentMail
}

type SentMail struct {
	To         string
	Subject    string
	ButtonLink string
	ButtonText string
	Purpose    string
}

func (m *MockMailer) Messages() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMail, len(m.Sent))
	copy(out, m.Sent)
	return out
}

func (m *MockMailer) Send(to, subject, buttonLink, buttonText, purpose string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{
		To:         to,
		Subject:    subject,
		ButtonLink: buttonLink,
		ButtonText: buttonText,
		Purpose:    purpose,
	})
	return nil
}
