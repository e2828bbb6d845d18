package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/akozyrev/budget_bot/internal/model"
)

func (b *Bot) getAuthKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔑 Войти", "action_login"),
			tgbotapi.NewInlineKeyboardButtonData("📝 Регистрация", "action_register"),
		),
	)
}

func (b *Bot) getMainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💸 Добавить расход", "action_add"),
			tgbotapi.NewInlineKeyboardButtonData("🧾 Расходы", "action_expenses"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Отчёт", "action_report"),
			tgbotapi.NewInlineKeyboardButtonData("📈 Статистика", "action_stats"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Категории", "action_categories"),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Цели", "action_goals"),
		),
	)
}

func (b *Bot) getReportPeriodKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("День", "report_daily"),
			tgbotapi.NewInlineKeyboardButtonData("Неделя", "report_weekly"),
			tgbotapi.NewInlineKeyboardButtonData("Месяц", "report_monthly"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« Назад", "action_back"),
		),
	)
}

func (b *Bot) getStatsPeriodKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Неделя", "stats_weekly"),
			tgbotapi.NewInlineKeyboardButtonData("Месяц", "stats_monthly"),
			tgbotapi.NewInlineKeyboardButtonData("Год", "stats_yearly"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« Назад", "action_back"),
		),
	)
}

// getCategoriesKeyboard — выбор категории для нового расхода
func (b *Bot) getCategoriesKeyboard(categories []model.Category) tgbotapi.InlineKeyboardMarkup {
	var buttons [][]tgbotapi.InlineKeyboardButton

	for _, category := range categories {
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				category.Name,
				"category_"+category.Name,
			),
		})
	}
	buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("➕ Новая категория", "add_category"),
	})

	return tgbotapi.NewInlineKeyboardMarkup(buttons...)
}

// getCategoriesManageKeyboard — управление списком категорий
func (b *Bot) getCategoriesManageKeyboard(categories []model.Category) tgbotapi.InlineKeyboardMarkup {
	var buttons [][]tgbotapi.InlineKeyboardButton

	for _, category := range categories {
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				"🗑 "+category.Name,
				"del_category_"+category.ID,
			),
		})
	}
	buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("➕ Добавить", "add_category"),
		tgbotapi.NewInlineKeyboardButtonData("« Назад", "action_back"),
	})

	return tgbotapi.NewInlineKeyboardMarkup(buttons...)
}

func (b *Bot) getReceiptKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Пропустить ➡️", "receipt_skip"),
		),
	)
}

func (b *Bot) getGoalsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 Месячный бюджет", "set_budget"),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Цели расходов", "set_goals"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« Назад", "action_back"),
		),
	)
}
