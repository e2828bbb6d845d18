package service

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated возвращается, когда действие требует активной сессии.
// Для вызывающей стороны это сигнал перенаправить пользователя на вход.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrSuperseded возвращается, когда результат запроса устарел: пока он
// выполнялся, для того же пользователя был начат более новый запрос
// той же цели. Такой результат отбрасывается, побеждает последний запрос.
var ErrSuperseded = errors.New("superseded by a newer request")

// ValidationError — ошибка пользовательского ввода.
// Операция при этом не выполняется, хранилище не затрагивается.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// IsValidationError сообщает, вызвана ли ошибка некорректным вводом
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
