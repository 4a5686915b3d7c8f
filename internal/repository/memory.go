package repository

import (
	"context"
	"sync"
	"time"

	"github.com/microdesk/ticket-service/internal/errs"
	"github.com/microdesk/ticket-service/internal/model"
)

// MemoryRepository — хранилище в памяти для тестов. Подставляется вместо
// GormRepository через конструктор сервиса, без рантайм-переключателей.
type MemoryRepository struct {
	mu      sync.Mutex
	nextID  uint64
	tickets map[uint64]model.Ticket

	// FailCreate имитирует отказ записи (проверка инварианта write-then-announce).
	FailCreate error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, tickets: make(map[uint64]model.Ticket)}
}

func (r *MemoryRepository) Create(_ context.Context, t *model.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreate != nil {
		return r.FailCreate
	}
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = time.Now().Format(time.RFC3339)
	r.tickets[t.ID] = *t
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uint64) (*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, errs.ErrTicketNotFound
	}
	return &t, nil
}

func (r *MemoryRepository) Update(_ context.Context, id uint64, title, description string, status model.TicketStatus) (*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, errs.ErrTicketNotFound
	}
	t.Title = title
	t.Description = description
	t.Status = status
	r.tickets[id] = t
	return &t, nil
}
