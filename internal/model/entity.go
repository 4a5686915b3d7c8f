package model

import "strings"

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// Ticket — единственная доменная сущность сервиса.
// user_id и created_at назначаются при создании и больше не меняются.
type Ticket struct {
	ID          uint64       `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"type:text;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TicketStatus `gorm:"type:text;default:open;index" json:"status"`
	UserID      int64        `gorm:"not null" json:"user_id"`
	// CreatedAt хранится текстом (ISO-8601), штампуется хранилищем при вставке.
	CreatedAt string `gorm:"type:text" json:"created_at"`
}

// StatusPolicy описывает допустимые статусы. По умолчанию политика
// разрешительная: любой строковый статус принимается как есть.
// Strict включает проверку по закрытому набору Allowed.
type StatusPolicy struct {
	Allowed []TicketStatus
	Strict  bool
}

// DefaultStatusPolicy — известные статусы без принудительной проверки.
func DefaultStatusPolicy() StatusPolicy {
	return StatusPolicy{
		Allowed: []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed},
	}
}

// Valid сообщает, принимает ли политика данный статус.
func (p StatusPolicy) Valid(s TicketStatus) bool {
	if !p.Strict {
		return true
	}
	for _, a := range p.Allowed {
		if a == s {
			return true
		}
	}
	return false
}

// ParseStatuses разбирает список статусов "open,in_progress,closed" из конфигурации.
func ParseStatuses(s string) []TicketStatus {
	var out []TicketStatus
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, TicketStatus(t))
		}
	}
	return out
}
