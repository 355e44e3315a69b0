package service

import (
	"errors"

	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
)

// ValidationError reports a missing or malformed request field. Its message
// is user-facing and already localized.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// NewValidationError creates a ValidationError with a user-facing message.
func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}

// UserMessage maps an error onto the localized message shown in the Mini-App.
// Storage internals are never exposed; unknown errors get a generic retry
// message. The UI never shows a blank failure.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.msg
	}

	switch {
	case errors.Is(err, domain.ErrBidNotFound):
		return "Заявка не найдена."
	case errors.Is(err, domain.ErrBidClosed):
		return "Заявка уже закрыта."
	case errors.Is(err, domain.ErrAlreadyResponded):
		return "Вы уже откликнулись на эту заявку."
	case errors.Is(err, domain.ErrUserNotFound):
		return "Пользователь не найден."
	case errors.Is(err, domain.ErrEmptyMessage):
		return "Сообщение не может быть пустым."
	default:
		return "Произошла ошибка. Пожалуйста, попробуйте ещё раз."
	}
}
