package main

import (
	"context"
	"sync"

	"github.com/supabase-community/supabase-go"

	"github.com/akozyrev/budget_bot/internal/auth"
	"github.com/akozyrev/budget_bot/internal/bot"
	"github.com/akozyrev/budget_bot/internal/config"
	"github.com/akozyrev/budget_bot/internal/repository"
	"github.com/akozyrev/budget_bot/internal/service"
)

// Request — структура входящего запроса от API Gateway
type Request struct {
	Body string `json:"body"`
}

// Response — структура ответа для API Gateway
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Бот создается один раз на инстанс функции и переиспользуется между
// warm-инвокациями: сессии и состояния диалогов живут в его памяти.
// При cold start инстанс новый, и пользователям придется войти заново.
var (
	initOnce sync.Once
	botInst  *bot.Bot
	initErr  error
)

func instance() (*bot.Bot, error) {
	initOnce.Do(func() {
		cfg, err := config.LoadConfig()
		if err != nil {
			initErr = err
			return
		}

		client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)
		if err != nil {
			initErr = err
			return
		}

		repo := repository.NewSupabaseRepository(client, cfg.ReceiptsBucket)
		tracker := service.NewExpenseTracker(repo)
		authService := auth.NewSupabaseAuth(client)

		botInst, initErr = bot.NewBot(cfg.TelegramToken, tracker, authService)
	})
	return botInst, initErr
}

func Handler(ctx context.Context, request Request) (*Response, error) {
	b, err := instance()
	if err != nil {
		return errorResponse(err)
	}

	if err := b.HandleWebhook([]byte(request.Body)); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для serverless-рантайма, локально не используется
}
