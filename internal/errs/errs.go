package errs

import "errors"

var (
	// ErrTicketNotFound — тикет с таким id не существует. Нормальный исход
	// чтения, хендлеры мапят его в 404 через errors.Is.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrInvalidStatus — статус вне закрытого набора (только при строгой политике).
	ErrInvalidStatus = errors.New("invalid ticket status")
)
