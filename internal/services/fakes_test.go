package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ticketinventory/internal/domain"
	"ticketinventory/internal/inventory"
)

// mockStore is an in-memory template and ticket store. It implements both
// domain.TemplateRepository and domain.TicketRepository so that LoadAggregate always
// reflects the tickets it holds.
type mockStore struct {
	mu        sync.Mutex
	templates map[domain.TemplateKey]int
	tickets   map[string]*domain.Ticket
	seq       int

	insertErr  error
	cancelErr  error
	queryErr   error
	listErr    error
	skipActive bool
	// commitThenFail stores the ticket before returning insertErr, like a commit whose
	// acknowledgement was lost.
	commitThenFail bool
	inserts        int
	loads          int
}

func newMockStore() *mockStore {
	return &mockStore{
		templates: make(map[domain.TemplateKey]int),
		tickets:   make(map[string]*domain.Ticket),
	}
}

func (m *mockStore) LoadAggregate(ctx context.Context, key domain.TemplateKey) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	capacity, ok := m.templates[key]
	if !ok {
		return 0, 0, domain.ErrNotFound
	}
	assigned := 0
	for _, t := range m.tickets {
		if t.Key == key && t.Active() {
			assigned++
		}
	}
	return capacity, assigned, nil
}

func (m *mockStore) Create(ctx context.Context, tmpl *domain.TicketTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[tmpl.Key]; ok {
		return domain.ErrDuplicateTemplate
	}
	m.templates[tmpl.Key] = tmpl.Capacity
	return nil
}

func (m *mockStore) Delete(ctx context.Context, key domain.TemplateKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.templates, key)
	return nil
}

func (m *mockStore) ListKeys(ctx context.Context) ([]domain.TemplateKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	keys := make([]domain.TemplateKey, 0, len(m.templates))
	for k := range m.templates {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *mockStore) InsertTicket(ctx context.Context, attendeeID string, key domain.TemplateKey, targetID string, issuedAt time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	if m.insertErr != nil && !m.commitThenFail {
		return "", m.insertErr
	}
	for _, t := range m.tickets {
		if t.AttendeeID == attendeeID && t.TargetID == targetID && t.Active() {
			return "", domain.ErrAlreadyRegistered
		}
	}
	m.seq++
	id := fmt.Sprintf("t-%03d", m.seq)
	m.tickets[id] = &domain.Ticket{
		ID:         id,
		AttendeeID: attendeeID,
		TargetID:   targetID,
		Key:        key,
		Status:     domain.TicketStatusActive,
		IssuedAt:   issuedAt,
	}
	if m.insertErr != nil {
		return "", m.insertErr
	}
	return id, nil
}

func (m *mockStore) GetByID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[ticketID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockStore) HasActiveTicket(ctx context.Context, attendeeID, targetID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.skipActive {
		return false, nil
	}
	for _, t := range m.tickets {
		if t.AttendeeID == attendeeID && t.TargetID == targetID && t.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) MarkCancelled(ctx context.Context, ticketID string, cancelledAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelErr != nil {
		return m.cancelErr
	}
	t, ok := m.tickets[ticketID]
	if !ok || !t.Active() {
		return domain.ErrNotFound
	}
	t.Status = domain.TicketStatusCancelled
	t.CancelledAt = &cancelledAt
	return nil
}

func (m *mockStore) QueryTickets(ctx context.Context, criteria domain.TicketCriteria) ([]*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	var out []*domain.Ticket
	for _, t := range m.tickets {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockStore) addTicket(t *domain.Ticket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[t.ID] = t
}

func (m *mockStore) activeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tickets {
		if t.Active() {
			n++
		}
	}
	return n
}

type recordingSink struct {
	mu       sync.Mutex
	outcomes []domain.RegistrationOutcome
	err      error
}

func (s *recordingSink) Record(ctx context.Context, out domain.RegistrationOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, out)
	return s.err
}

var errStoreDown = errors.New("connection refused")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestInventory(t *testing.T, loader inventory.Loader) *inventory.Cache {
	t.Helper()
	c, err := inventory.NewCache(loader, inventory.Options{Size: 128, LockStripes: 8})
	require.NoError(t, err)
	return c
}

func mustKey(t *testing.T, event, session, ticketType, price string) domain.TemplateKey {
	t.Helper()
	key, err := domain.ParseTemplateKey(event, session, ticketType, price)
	require.NoError(t, err)
	return key
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }
