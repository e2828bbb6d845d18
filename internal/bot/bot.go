package bot

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/akozyrev/budget_bot/internal/auth"
	"github.com/akozyrev/budget_bot/internal/charts"
	"github.com/akozyrev/budget_bot/internal/model"
	"github.com/akozyrev/budget_bot/internal/service"
)

type Bot struct {
	api     *tgbotapi.BotAPI
	service *service.ExpenseTracker
	auth    auth.Service
	charts  *charts.ChartGenerator

	mu       sync.Mutex
	sessions map[int64]*auth.Session    // активные сессии по Telegram ID
	states   map[int64]*model.UserState // состояния диалогов по Telegram ID
}

func NewBot(token string, service *service.ExpenseTracker, authService auth.Service) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:      api,
		service:  service,
		auth:     authService,
		charts:   charts.NewChartGenerator(),
		sessions: make(map[int64]*auth.Session),
		states:   make(map[int64]*model.UserState),
	}, nil
}

// Start запускает бота в режиме long polling
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if err := b.handleUpdate(update); err != nil {
			// Логируем ошибку, но продолжаем работу
			fmt.Printf("Error handling update: %v\n", err)
		}
	}

	return nil
}

// HandleWebhook - точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}

	return b.handleUpdate(update)
}

func (b *Bot) handleUpdate(update tgbotapi.Update) error {
	if update.Message == nil && update.CallbackQuery == nil {
		return nil
	}

	if update.Message != nil && update.Message.IsCommand() {
		return b.handleCommand(update.Message)
	}

	if update.CallbackQuery != nil {
		return b.handleCallback(update.CallbackQuery)
	}

	return b.handleMessage(update.Message)
}

func (b *Bot) handleCommand(message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "login":
		b.beginLogin(message)
	case "register":
		b.beginRegister(message)
	case "logout":
		b.handleLogout(message)
	case "add":
		b.handleAddExpense(message)
	case "expenses":
		b.handleExpenses(message)
	case "report":
		b.handleReportMenu(message)
	case "stats":
		b.handleStatsMenu(message)
	case "categories":
		b.handleCategories(message)
	case "goals":
		b.handleGoals(message)
	case "budget":
		b.beginMonthlyGoal(message)
	case "password":
		b.beginChangePassword(message)
	}
	return nil
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) error {
	message := &tgbotapi.Message{
		From: callback.From,
		Chat: callback.Message.Chat,
	}

	switch {
	case callback.Data == "action_add":
		b.handleAddExpense(message)
	case callback.Data == "action_expenses":
		b.handleExpenses(message)
	case callback.Data == "action_report":
		b.handleReportMenu(message)
	case callback.Data == "action_stats":
		b.handleStatsMenu(message)
	case callback.Data == "action_categories":
		b.handleCategories(message)
	case callback.Data == "action_goals":
		b.handleGoals(message)
	case callback.Data == "action_login":
		b.beginLogin(message)
	case callback.Data == "action_register":
		b.beginRegister(message)
	case callback.Data == "action_back":
		b.sendMainMenu(message.Chat.ID)
	case callback.Data == "add_category":
		b.beginNewCategory(message)
	case callback.Data == "set_goals":
		b.beginSpendingGoals(message)
	case callback.Data == "set_budget":
		b.beginMonthlyGoal(message)
	case callback.Data == "receipt_skip":
		b.finishExpense(message, nil, "")
	case strings.HasPrefix(callback.Data, "report_"):
		b.handleReport(message, strings.TrimPrefix(callback.Data, "report_"))
	case strings.HasPrefix(callback.Data, "stats_"):
		b.handleStats(message, strings.TrimPrefix(callback.Data, "stats_"))
	case strings.HasPrefix(callback.Data, "category_"):
		b.selectCategory(message, strings.TrimPrefix(callback.Data, "category_"))
	case strings.HasPrefix(callback.Data, "del_category_"):
		b.deleteCategory(message, strings.TrimPrefix(callback.Data, "del_category_"))
	}

	// Отвечаем на callback, чтобы убрать loading indicator
	b.api.Request(tgbotapi.NewCallback(callback.ID, ""))

	return nil
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	if b.session(message.From.ID) != nil {
		b.sendMainMenu(message.Chat.ID)
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID,
		"Добро пожаловать в бот учёта бюджета! 💰\n\n"+
			"Я помогу вам отслеживать расходы и цели:\n\n"+
			"• Записывайте расходы с фото чека\n"+
			"• Устанавливайте месячный бюджет и цели\n"+
			"• Смотрите отчёты и графики по категориям\n\n"+
			"Для начала войдите или зарегистрируйтесь:")
	msg.ReplyMarkup = b.getAuthKeyboard()
	b.api.Send(msg)
}

// session возвращает активную сессию пользователя или nil
func (b *Bot) session(userID int64) *auth.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessions[userID]
}

func (b *Bot) setSession(userID int64, session *auth.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if session == nil {
		delete(b.sessions, userID)
		return
	}
	b.sessions[userID] = session
}

func (b *Bot) state(userID int64) *model.UserState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.states[userID]
}

func (b *Bot) setState(userID int64, state *model.UserState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if state == nil {
		delete(b.states, userID)
		return
	}
	b.states[userID] = state
}

// requireSession проверяет, что пользователь вошел; если нет —
// показывает экран входа
func (b *Bot) requireSession(message *tgbotapi.Message) *auth.Session {
	session := b.session(message.From.ID)
	if session == nil {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Сначала войдите в аккаунт:")
		msg.ReplyMarkup = b.getAuthKeyboard()
		b.api.Send(msg)
		return nil
	}
	return session
}

func (b *Bot) sendMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Выберите действие:")
	msg.ReplyMarkup = b.getMainKeyboard()
	b.api.Send(msg)
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	b.api.Send(tgbotapi.NewMessage(chatID, "❌ "+text))
}

// reportServiceError показывает пользователю ошибку операции.
// Устаревшие результаты (ErrSuperseded) молча отбрасываются: их уже
// вытеснил более новый запрос.
func (b *Bot) reportServiceError(chatID int64, err error, fallback string) {
	if errors.Is(err, service.ErrSuperseded) {
		return
	}
	if errors.Is(err, service.ErrNotAuthenticated) {
		msg := tgbotapi.NewMessage(chatID, "Сначала войдите в аккаунт:")
		msg.ReplyMarkup = b.getAuthKeyboard()
		b.api.Send(msg)
		return
	}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		b.sendErrorMessage(chatID, validationText(ve))
		return
	}
	b.sendErrorMessage(chatID, fallback)
}

func validationText(ve *service.ValidationError) string {
	switch ve.Field {
	case "amount":
		return "Неверная сумма. Используйте число, например: 1000.50"
	case "category", "name":
		return "Название не может быть пустым"
	case "min_spending_goal":
		return "Минимальная цель должна быть числом и не превышать максимальную"
	case "max_spending_goal":
		return "Максимальная цель должна быть неотрицательным числом"
	case "monthly_goal":
		return "Бюджет должен быть неотрицательным числом"
	default:
		return "Неверный ввод: " + ve.Reason
	}
}
