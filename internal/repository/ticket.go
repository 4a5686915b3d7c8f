package repository

import (
	"context"
	"errors"
	"time"

	"github.com/microdesk/ticket-service/internal/errs"
	"github.com/microdesk/ticket-service/internal/model"
	"gorm.io/gorm"
)

// TicketRepository — шлюз к долговременному хранилищу тикетов.
// Никакой бизнес-логики: только CRUD-примитивы. Update перезаписывает три
// изменяемых поля уже разрешёнными значениями (слияние делает вызывающий).
type TicketRepository interface {
	Create(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, id uint64) (*model.Ticket, error)
	Update(ctx context.Context, id uint64, title, description string, status model.TicketStatus) (*model.Ticket, error)
}

// GormRepository — постоянное хранилище поверх gorm/postgres.
// Каждая операция берёт соединение из пула gorm и отпускает его по завершении;
// транзакции между операциями не растягиваются.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, t *model.Ticket) error {
	t.CreatedAt = time.Now().Format(time.RFC3339)
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *GormRepository) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	var t model.Ticket
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *GormRepository) Update(ctx context.Context, id uint64, title, description string, status model.TicketStatus) (*model.Ticket, error) {
	var t model.Ticket
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	changes := map[string]interface{}{
		"title":       title,
		"description": description,
		"status":      string(status),
	}
	if err := r.db.WithContext(ctx).Model(&t).Updates(changes).Error; err != nil {
		return nil, err
	}
	t.Title = title
	t.Description = description
	t.Status = status
	return &t, nil
}
