package auth

import "context"

// Session — активная сессия пользователя внешнего сервиса аутентификации
type Session struct {
	UserID      string
	Email       string
	AccessToken string
}

// Service определяет интерфейс внешнего сервиса аутентификации.
// Ядро приложения только потребляет его, вся работа с паролями
// делегирована провайдеру.
type Service interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, session *Session) error
	ChangePassword(ctx context.Context, session *Session, newPassword string) error
}
