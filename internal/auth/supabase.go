package auth

import (
	"context"
	"fmt"

	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
)

// SupabaseAuth реализует Service поверх Supabase gotrue
type SupabaseAuth struct {
	client *supabase.Client
}

func NewSupabaseAuth(client *supabase.Client) *SupabaseAuth {
	return &SupabaseAuth{client: client}
}

func (a *SupabaseAuth) SignUp(ctx context.Context, email, password string) (*Session, error) {
	_, err := a.client.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}

	// Сразу входим, чтобы получить сессию с токеном
	return a.SignIn(ctx, email, password)
}

func (a *SupabaseAuth) SignIn(ctx context.Context, email, password string) (*Session, error) {
	session, err := a.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	return &Session{
		UserID:      session.User.ID.String(),
		Email:       email,
		AccessToken: session.AccessToken,
	}, nil
}

func (a *SupabaseAuth) SignOut(ctx context.Context, session *Session) error {
	if err := a.client.Auth.WithToken(session.AccessToken).Logout(); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

func (a *SupabaseAuth) ChangePassword(ctx context.Context, session *Session, newPassword string) error {
	_, err := a.client.Auth.WithToken(session.AccessToken).UpdateUser(types.UpdateUserRequest{
		Password: &newPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}
