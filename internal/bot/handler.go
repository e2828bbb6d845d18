package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/akozyrev/budget_bot/internal/auth"
	"github.com/akozyrev/budget_bot/internal/model"
	"github.com/akozyrev/budget_bot/internal/period"
	"github.com/akozyrev/budget_bot/internal/service"
)

// handleMessage обрабатывает обычные сообщения согласно состоянию диалога
func (b *Bot) handleMessage(message *tgbotapi.Message) error {
	state := b.state(message.From.ID)
	if state == nil {
		if b.session(message.From.ID) == nil {
			b.handleStart(message)
		} else {
			b.sendMainMenu(message.Chat.ID)
		}
		return nil
	}

	switch state.AwaitingAction {
	case model.AwaitingLoginEmail, model.AwaitingRegisterEmail:
		b.handleEmailInput(message, state)
	case model.AwaitingLoginPassword, model.AwaitingRegisterPassword:
		b.handlePasswordInput(message, state)
	case model.AwaitingNewPassword:
		b.handleNewPassword(message)
	case model.AwaitingNewCategory:
		b.handleNewCategory(message)
	case model.AwaitingExpenseInput:
		b.handleExpenseInput(message, state)
	case model.AwaitingReceipt:
		b.handleReceiptInput(message)
	case model.AwaitingMonthlyGoal:
		b.handleMonthlyGoalInput(message)
	case model.AwaitingSpendingGoals:
		b.handleSpendingGoalsInput(message)
	default:
		b.setState(message.From.ID, nil)
		b.sendMainMenu(message.Chat.ID)
	}
	return nil
}

// --- Аутентификация ---

func (b *Bot) beginLogin(message *tgbotapi.Message) {
	b.setState(message.From.ID, &model.UserState{AwaitingAction: model.AwaitingLoginEmail})
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Введите email:"))
}

func (b *Bot) beginRegister(message *tgbotapi.Message) {
	b.setState(message.From.ID, &model.UserState{AwaitingAction: model.AwaitingRegisterEmail})
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Введите email для регистрации:"))
}

func (b *Bot) handleEmailInput(message *tgbotapi.Message, state *model.UserState) {
	email := strings.TrimSpace(message.Text)
	if _, err := mail.ParseAddress(email); err != nil {
		b.sendErrorMessage(message.Chat.ID, "Неверный формат email, попробуйте еще раз")
		return
	}

	state.PendingEmail = email
	if state.AwaitingAction == model.AwaitingLoginEmail {
		state.AwaitingAction = model.AwaitingLoginPassword
	} else {
		state.AwaitingAction = model.AwaitingRegisterPassword
	}
	b.setState(message.From.ID, state)
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Введите пароль (не менее 6 символов):"))
}

func (b *Bot) handlePasswordInput(message *tgbotapi.Message, state *model.UserState) {
	password := strings.TrimSpace(message.Text)
	if len(password) < 6 {
		b.sendErrorMessage(message.Chat.ID, "Пароль должен содержать не менее 6 символов")
		return
	}

	registering := state.AwaitingAction == model.AwaitingRegisterPassword
	b.setState(message.From.ID, nil)

	var err error
	var session *auth.Session
	if registering {
		session, err = b.auth.SignUp(context.Background(), state.PendingEmail, password)
	} else {
		session, err = b.auth.SignIn(context.Background(), state.PendingEmail, password)
	}
	if err != nil {
		if registering {
			b.sendErrorMessage(message.Chat.ID, "Ошибка регистрации: "+err.Error())
		} else {
			b.sendErrorMessage(message.Chat.ID, "Ошибка входа. Проверьте email и пароль.")
		}
		return
	}

	b.setSession(message.From.ID, session)

	if registering {
		// Стартовый набор категорий для нового пользователя
		if err := b.service.CreateDefaultCategories(context.Background(), session.UserID); err != nil {
			fmt.Printf("Error creating default categories: %v\n", err)
		}
		b.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Регистрация выполнена! ✅"))
	} else {
		b.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Вход выполнен! ✅"))
	}
	b.sendMainMenu(message.Chat.ID)
}

func (b *Bot) handleLogout(message *tgbotapi.Message) {
	session := b.session(message.From.ID)
	if session == nil {
		b.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Вы не вошли в аккаунт."))
		return
	}

	if err := b.auth.SignOut(context.Background(), session); err != nil {
		fmt.Printf("Error signing out: %v\n", err)
	}
	b.setSession(message.From.ID, nil)
	b.setState(message.From.ID, nil)
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Вы вышли из аккаунта. 👋"))
}

func (b *Bot) beginChangePassword(message *tgbotapi.Message) {
	if b.requireSession(message) == nil {
		return
	}
	b.setState(message.From.ID, &model.UserState{AwaitingAction: model.AwaitingNewPassword})
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Введите новый пароль (не менее 6 символов):"))
}

func (b *Bot) handleNewPassword(message *tgbotapi.Message) {
	session := b.session(message.From.ID)
	if session == nil {
		b.setState(message.From.ID, nil)
		return
	}

	password := strings.TrimSpace(message.Text)
	if len(password) < 6 {
		b.sendErrorMessage(message.Chat.ID, "Пароль должен содержать не менее 6 символов")
		return
	}

	b.setState(message.From.ID, nil)
	if err := b.auth.ChangePassword(context.Background(), session, password); err != nil {
		b.sendErrorMessage(message.Chat.ID, "Не удалось сменить пароль. Попробуйте выйти и войти снова.")
		return
	}
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Пароль обновлен! ✅"))
}

// --- Расходы ---

func (b *Bot) handleAddExpense(message *tgbotapi.Message) {
	session := b.requireSession(message)
	if session == nil {
		return
	}

	categories, err := b.service.GetCategories(context.Background(), session.UserID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Ошибка при получении категорий")
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "Выберите категорию расхода:")
	msg.ReplyMarkup = b.getCategoriesKeyboard(categories)
	b.api.Send(msg)
}

func (b *Bot) selectCategory(message *tgbotapi.Message, category string) {
	if b.requireSession(message) == nil {
		return
	}

	b.setState(message.From.ID, &model.UserState{
		AwaitingAction:   model.AwaitingExpenseInput,
		SelectedCategory: category,
	})
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID,
		fmt.Sprintf("Категория: %s\nВведите сумму и описание в формате:\n1000 Покупка продуктов", category)))
}

func (b *Bot) handleExpenseInput(message *tgbotapi.Message, state *model.UserState) {
	parts := strings.SplitN(strings.TrimSpace(message.Text), " ", 2)
	amount, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Неверный формат суммы. Используйте число, например: 1000.50")
		return
	}

	description := ""
	if len(parts) == 2 {
		description = parts[1]
	}

	state.AwaitingAction = model.AwaitingReceipt
	state.PendingAmount = amount
	state.PendingDescription = description
	b.setState(message.From.ID, state)

	msg := tgbotapi.NewMessage(message.Chat.ID, "Прикрепите фото чека или пропустите этот шаг:")
	msg.ReplyMarkup = b.getReceiptKeyboard()
	b.api.Send(msg)
}

func (b *Bot) handleReceiptInput(message *tgbotapi.Message) {
	if len(message.Photo) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Отправьте фото чека или нажмите «Пропустить»:")
		msg.ReplyMarkup = b.getReceiptKeyboard()
		b.api.Send(msg)
		return
	}

	receipt, contentType, err := b.downloadReceipt(message)
	if err != nil {
		fmt.Printf("Error downloading receipt: %v\n", err)
		b.sendErrorMessage(message.Chat.ID, "Не удалось загрузить фото. Расход не сохранен, попробуйте еще раз.")
		return
	}
	b.finishExpense(message, receipt, contentType)
}

// finishExpense сохраняет отложенный расход; receipt может быть nil
func (b *Bot) finishExpense(message *tgbotapi.Message, receipt []byte, contentType string) {
	session := b.session(message.From.ID)
	state := b.state(message.From.ID)
	if session == nil || state == nil || state.AwaitingAction != model.AwaitingReceipt {
		return
	}
	b.setState(message.From.ID, nil)

	expense, err := b.service.AddExpense(context.Background(), session.UserID, service.AddExpenseInput{
		Amount:             state.PendingAmount,
		Category:           state.SelectedCategory,
		Description:        state.PendingDescription,
		Receipt:            receipt,
		ReceiptContentType: contentType,
	})
	if err != nil {
		b.reportServiceError(message.Chat.ID, err, "Ошибка при сохранении расхода")
		return
	}

	text := fmt.Sprintf("Расход сохранен! ✅\n%s: %.2f₽", expense.Category, expense.Amount)
	if expense.ImageURL != nil {
		text += "\n📎 Чек прикреплен"
	}
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = b.getMainKeyboard()
	b.api.Send(msg)
}

// downloadReceipt скачивает самое крупное из присланных фото
func (b *Bot) downloadReceipt(message *tgbotapi.Message) ([]byte, string, error) {
	photo := message.Photo[len(message.Photo)-1]
	url, err := b.api.GetFileDirectURL(photo.FileID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get file url: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	return data, "image/jpeg", nil
}

func (b *Bot) handleExpenses(message *tgbotapi.Message) {
	session := b.requireSession(message)
	if session == nil {
		return
	}

	expenses, err := b.service.RecentExpenses(context.Background(), session.UserID, 10)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Ошибка при получении расходов")
		return
	}

	if len(expenses) == 0 {
		b.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Расходов пока нет. Добавьте первый через /add"))
		return
	}

	text := "🧾 Последние расходы:\n\n"
	for _, e := range expenses {
		line := fmt.Sprintf("• %s — %.2f₽ (%s)", e.Category, e.Amount, e.Time().Format("02.01 15:04"))
		if e.Description != "" {
			line += " " + e.Description
		}
		if e.ImageURL != nil {
			line += " 📎"
		}
		text += line + "\n"
	}
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID, text))
}

// --- Отчеты ---

func (b *Bot) handleReportMenu(message *tgbotapi.Message) {
	if b.requireSession(message) == nil {
		return
	}
	msg := tgbotapi.NewMessage(message.Chat.ID, "За какой период показать отчет?")
	msg.ReplyMarkup = b.getReportPeriodKeyboard()
	b.api.Send(msg)
}

func (b *Bot) handleReport(message *tgbotapi.Message, periodName string) {
	session := b.requireSession(message)
	if session == nil {
		return
	}

	kind, _ := period.ParseKind(periodName)
	overview, err := b.service.Overview(context.Background(), session.UserID, kind, time.Now())
	if err != nil {
		b.reportServiceError(message.Chat.ID, err, "Ошибка при формировании отчета")
		return
	}

	var totalBudget float64
	if overview.Goals != nil {
		totalBudget = overview.Goals.MonthlyGoal
	}

	text := fmt.Sprintf(
		"📊 Отчет: %s\n\n"+
			"💰 Бюджет: %.2f₽\n"+
			"💸 Траты: %.2f₽\n"+
			"💵 Остаток: %.2f₽\n\n"+
			"%s %d%%\n%s\n",
		overview.Window.Label,
		totalBudget,
		overview.Summary.Total,
		overview.Status.Remaining,
		progressBar(overview.Status.DisplayPercentage),
		overview.Status.DisplayPercentage,
		overview.Status.Message(),
	)

	if !overview.Summary.Empty() {
		text += "\nПо категориям:\n"
		for _, ct := range overview.Summary.PerCategory {
			text += fmt.Sprintf("💸 %s: %.2f₽\n", ct.Category, ct.Amount)
		}
	}

	b.api.Send(tgbotapi.NewMessage(message.Chat.ID, text))

	// График бюджета к тратам
	img, err := b.charts.GenerateBudgetChart(overview)
	if err != nil {
		fmt.Printf("Error rendering budget chart: %v\n", err)
		return
	}
	if img != nil {
		photo := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FileBytes{Name: "budget.png", Bytes: img})
		b.api.Send(photo)
	}
}

func (b *Bot) handleStatsMenu(message *tgbotapi.Message) {
	if b.requireSession(message) == nil {
		return
	}
	msg := tgbotapi.NewMessage(message.Chat.ID, "За какой период показать статистику?")
	msg.ReplyMarkup = b.getStatsPeriodKeyboard()
	b.api.Send(msg)
}

func (b *Bot) handleStats(message *tgbotapi.Message, periodName string) {
	session := b.requireSession(message)
	if session == nil {
		return
	}

	kind, _ := period.ParseKind(periodName)
	stats, err := b.service.Statistics(context.Background(), session.UserID, kind, time.Now())
	if err != nil {
		b.reportServiceError(message.Chat.ID, err, "Ошибка при формировании статистики")
		return
	}

	if stats.Summary.Empty() {
		b.api.Send(tgbotapi.NewMessage(message.Chat.ID,
			fmt.Sprintf("За период %s расходов нет.", stats.Window.Label)))
		return
	}

	img, err := b.charts.GenerateCategoryBarChart(stats)
	if err != nil {
		fmt.Printf("Error rendering category chart: %v\n", err)
		b.sendErrorMessage(message.Chat.ID, "Не удалось построить график")
		return
	}

	caption := fmt.Sprintf("📈 Статистика: %s\nВсего потрачено: %.2f₽", stats.Window.Label, stats.Summary.Total)
	photo := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FileBytes{Name: "stats.png", Bytes: img})
	photo.Caption = caption
	b.api.Send(photo)
}

// --- Категории ---

func (b *Bot) handleCategories(message *tgbotapi.Message) {
	session := b.requireSession(message)
	if session == nil {
		return
	}

	categories, err := b.service.GetCategories(context.Background(), session.UserID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Ошибка при получении категорий")
		return
	}

	text := "📋 Ваши категории:\n\n"
	if len(categories) == 0 {
		text += "Категорий пока нет.\n"
	}
	for _, cat := range categories {
		if cat.MonthlyLimit > 0 {
			text += fmt.Sprintf("• %s (лимит %.0f₽)\n", cat.Name, cat.MonthlyLimit)
		} else {
			text += fmt.Sprintf("• %s\n", cat.Name)
		}
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = b.getCategoriesManageKeyboard(categories)
	b.api.Send(msg)
}

func (b *Bot) beginNewCategory(message *tgbotapi.Message) {
	if b.requireSession(message) == nil {
		return
	}
	b.setState(message.From.ID, &model.UserState{AwaitingAction: model.AwaitingNewCategory})
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID,
		"Введите название категории и, при желании, месячный лимит:\nПродукты 5000"))
}

func (b *Bot) handleNewCategory(message *tgbotapi.Message) {
	session := b.session(message.From.ID)
	if session == nil {
		b.setState(message.From.ID, nil)
		return
	}
	b.setState(message.From.ID, nil)

	name := strings.TrimSpace(message.Text)
	limit := 0.0
	// Последнее слово может быть лимитом
	if i := strings.LastIndex(name, " "); i > 0 {
		if parsed, err := strconv.ParseFloat(name[i+1:], 64); err == nil {
			limit = parsed
			name = strings.TrimSpace(name[:i])
		}
	}

	category, err := b.service.CreateCategory(context.Background(), session.UserID, name, limit)
	if err != nil {
		b.reportServiceError(message.Chat.ID, err, "Ошибка при создании категории")
		return
	}

	b.api.Send(tgbotapi.NewMessage(message.Chat.ID,
		fmt.Sprintf("Категория '%s' успешно создана! ✅", category.Name)))
	b.handleCategories(message)
}

func (b *Bot) deleteCategory(message *tgbotapi.Message, categoryID string) {
	session := b.requireSession(message)
	if session == nil {
		return
	}

	if err := b.service.DeleteCategory(context.Background(), categoryID, session.UserID); err != nil {
		b.sendErrorMessage(message.Chat.ID, "Ошибка при удалении категории")
		return
	}
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Категория удалена. 🗑"))
	b.handleCategories(message)
}

// --- Цели ---

func (b *Bot) handleGoals(message *tgbotapi.Message) {
	session := b.requireSession(message)
	if session == nil {
		return
	}

	goals, err := b.service.Goals(context.Background(), session.UserID)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Ошибка при получении целей")
		return
	}

	text := "🎯 Ваши цели:\n\n"
	if goals == nil {
		text += "Цели еще не заданы.\n"
	} else {
		text += fmt.Sprintf("Месячный бюджет: %.2f₽\n", goals.MonthlyGoal)
		text += "Минимальная цель: " + formatGoal(goals.MinSpendingGoal) + "\n"
		text += "Максимальная цель: " + formatGoal(goals.MaxSpendingGoal) + "\n"
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = b.getGoalsKeyboard()
	b.api.Send(msg)
}

func formatGoal(goal *float64) string {
	if goal == nil {
		return "не задана"
	}
	return fmt.Sprintf("%.2f₽", *goal)
}

func (b *Bot) beginMonthlyGoal(message *tgbotapi.Message) {
	if b.requireSession(message) == nil {
		return
	}
	b.setState(message.From.ID, &model.UserState{AwaitingAction: model.AwaitingMonthlyGoal})
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Введите месячный бюджет, например: 30000"))
}

func (b *Bot) handleMonthlyGoalInput(message *tgbotapi.Message) {
	session := b.session(message.From.ID)
	if session == nil {
		b.setState(message.From.ID, nil)
		return
	}
	b.setState(message.From.ID, nil)

	amount, err := strconv.ParseFloat(strings.TrimSpace(message.Text), 64)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Неверный формат суммы. Используйте число, например: 30000")
		return
	}

	if err := b.service.SaveMonthlyGoal(context.Background(), session.UserID, amount); err != nil {
		b.reportServiceError(message.Chat.ID, err, "Ошибка при сохранении бюджета")
		return
	}
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Месячный бюджет сохранен! ✅"))
}

func (b *Bot) beginSpendingGoals(message *tgbotapi.Message) {
	if b.requireSession(message) == nil {
		return
	}
	b.setState(message.From.ID, &model.UserState{AwaitingAction: model.AwaitingSpendingGoals})
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID,
		"Введите цели расходов: максимум или минимум и максимум через пробел.\n"+
			"Например: 20000 или 5000 20000"))
}

func (b *Bot) handleSpendingGoalsInput(message *tgbotapi.Message) {
	session := b.session(message.From.ID)
	if session == nil {
		b.setState(message.From.ID, nil)
		return
	}
	b.setState(message.From.ID, nil)

	fields := strings.Fields(message.Text)
	if len(fields) == 0 || len(fields) > 2 {
		b.sendErrorMessage(message.Chat.ID, "Введите одно или два числа, например: 5000 20000")
		return
	}

	var minGoal *float64
	var maxGoal float64
	if len(fields) == 1 {
		parsed, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			b.sendErrorMessage(message.Chat.ID, "Неверный формат суммы")
			return
		}
		maxGoal = parsed
	} else {
		minParsed, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			b.sendErrorMessage(message.Chat.ID, "Неверный формат минимальной цели")
			return
		}
		maxParsed, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			b.sendErrorMessage(message.Chat.ID, "Неверный формат максимальной цели")
			return
		}
		minGoal = &minParsed
		maxGoal = maxParsed
	}

	if err := b.service.SaveSpendingGoals(context.Background(), session.UserID, minGoal, maxGoal); err != nil {
		b.reportServiceError(message.Chat.ID, err, "Ошибка при сохранении целей")
		return
	}
	b.api.Send(tgbotapi.NewMessage(message.Chat.ID, "Цели расходов сохранены! ✅"))
}

// progressBar рисует текстовый прогресс-бар из десяти ячеек
func progressBar(percentage int) string {
	filled := percentage / 10
	return strings.Repeat("▓", filled) + strings.Repeat("░", 10-filled)
}
