package event

import "context"

const (
	TicketCreated = "ticket_created"
	TicketUpdated = "ticket_updated"
)

// Event — уведомление о мутации тикета для подписчиков общего канала.
// user_id присутствует только в ticket_created (асимметрия контракта).
type Event struct {
	Name     string `json:"event"`
	TicketID uint64 `json:"ticket_id"`
	UserID   *int64 `json:"user_id,omitempty"`
}

// Created собирает событие ticket_created.
func Created(ticketID uint64, userID int64) Event {
	return Event{Name: TicketCreated, TicketID: ticketID, UserID: &userID}
}

// Updated собирает событие ticket_updated (без user_id).
func Updated(ticketID uint64) Event {
	return Event{Name: TicketUpdated, TicketID: ticketID}
}

// Announcer публикует события best-effort: без подтверждений, без ретраев,
// ошибки логируются и не возвращаются вызывающему (для подмены моком в тестах).
type Announcer interface {
	Announce(ctx context.Context, e Event)
}

// Noop — заглушка, когда канал событий не сконфигурирован.
type Noop struct{}

func (Noop) Announce(context.Context, Event) {}
