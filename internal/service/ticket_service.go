package service

import (
	"context"
	"time"

	"github.com/microdesk/ticket-service/internal/errs"
	"github.com/microdesk/ticket-service/internal/event"
	"github.com/microdesk/ticket-service/internal/model"
	"github.com/microdesk/ticket-service/internal/repository"
)

// announceTimeout ограничивает fire-and-forget публикацию события.
const announceTimeout = 5 * time.Second

// TicketPatch — частичное обновление: nil означает «поле не менять».
// user_id и created_at не патчатся никогда.
type TicketPatch struct {
	Title       *string
	Description *string
	Status      *string
}

// UpdateStrategy разрешает слияние патча с текущей записью и выполняет запись.
// По умолчанию last-write-wins; более строгий контроль конкурентности
// (версионирование, блокировки) подставляется сюда, не трогая вызывающих.
type UpdateStrategy interface {
	Apply(ctx context.Context, repo repository.TicketRepository, id uint64, patch TicketPatch) (*model.Ticket, error)
}

// lastWriteWins читает запись, поле за полем берёт значение патча либо
// сохранённое, и перезаписывает три изменяемых поля. Между чтением и записью
// блокировки нет: конкурентные обновления одного id перемежаются.
type lastWriteWins struct{}

func (lastWriteWins) Apply(ctx context.Context, repo repository.TicketRepository, id uint64, patch TicketPatch) (*model.Ticket, error) {
	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	title := current.Title
	if patch.Title != nil {
		title = *patch.Title
	}
	description := current.Description
	if patch.Description != nil {
		description = *patch.Description
	}
	status := current.Status
	if patch.Status != nil {
		status = model.TicketStatus(*patch.Status)
	}
	return repo.Update(ctx, id, title, description, status)
}

// TicketService — ядро обработки запросов: валидация, порядок
// «запись, затем событие», маппинг доменных исходов.
type TicketService struct {
	repo      repository.TicketRepository
	announcer event.Announcer
	statuses  model.StatusPolicy
	strategy  UpdateStrategy
}

// Option настраивает TicketService при создании.
type Option func(*TicketService)

// WithStatusPolicy задаёт политику статусов вместо разрешительной по умолчанию.
func WithStatusPolicy(p model.StatusPolicy) Option {
	return func(s *TicketService) { s.statuses = p }
}

// WithUpdateStrategy подменяет стратегию слияния обновлений.
func WithUpdateStrategy(st UpdateStrategy) Option {
	return func(s *TicketService) { s.strategy = st }
}

func NewTicketService(repo repository.TicketRepository, announcer event.Announcer, opts ...Option) *TicketService {
	s := &TicketService{
		repo:      repo,
		announcer: announcer,
		statuses:  model.DefaultStatusPolicy(),
		strategy:  lastWriteWins{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create вставляет тикет со статусом open и после коммита объявляет
// ticket_created. Отказ записи прерывает запрос до какой-либо публикации.
func (s *TicketService) Create(ctx context.Context, title, description string, userID int64) (*model.Ticket, error) {
	t := &model.Ticket{
		Title:       title,
		Description: description,
		Status:      model.TicketStatusOpen,
		UserID:      userID,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.announce(event.Created(t.ID, t.UserID))
	return t, nil
}

// GetByID возвращает тикет или errs.ErrTicketNotFound. Событий не порождает.
func (s *TicketService) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	return s.repo.GetByID(ctx, id)
}

// Update сливает патч с текущей записью через стратегию и объявляет
// ticket_updated после успешной записи. Отсутствующий id — ErrTicketNotFound,
// без записи и без события.
func (s *TicketService) Update(ctx context.Context, id uint64, patch TicketPatch) (*model.Ticket, error) {
	if patch.Status != nil && !s.statuses.Valid(model.TicketStatus(*patch.Status)) {
		return nil, errs.ErrInvalidStatus
	}
	t, err := s.strategy.Apply(ctx, s.repo, id, patch)
	if err != nil {
		return nil, err
	}
	s.announce(event.Updated(t.ID))
	return t, nil
}

// announce публикует событие в отдельной горутине с отвязанным контекстом:
// событие должно уйти даже при отмене запроса, но с таймаутом. Ошибки публикации
// не влияют на ответ клиенту.
func (s *TicketService) announce(e event.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), announceTimeout)
		defer cancel()
		s.announcer.Announce(ctx, e)
	}()
}
