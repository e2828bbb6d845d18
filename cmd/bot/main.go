package main

import (
	"log"

	"github.com/supabase-community/supabase-go"

	"github.com/akozyrev/budget_bot/internal/auth"
	"github.com/akozyrev/budget_bot/internal/bot"
	"github.com/akozyrev/budget_bot/internal/config"
	"github.com/akozyrev/budget_bot/internal/repository"
	"github.com/akozyrev/budget_bot/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)
	if err != nil {
		log.Fatal(err)
	}

	repo := repository.NewSupabaseRepository(client, cfg.ReceiptsBucket)
	tracker := service.NewExpenseTracker(repo)
	authService := auth.NewSupabaseAuth(client)

	b, err := bot.NewBot(cfg.TelegramToken, tracker, authService)
	if err != nil {
		log.Fatal(err)
	}

	if err := b.Start(); err != nil {
		log.Fatal(err)
	}
}
