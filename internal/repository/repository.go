package repository

import (
	"context"

	"github.com/akozyrev/budget_bot/internal/model"
	"github.com/akozyrev/budget_bot/internal/period"
)

// Repository определяет интерфейс для работы с хранилищем данных.
// Пустой результат выборки — валидное состояние, а не ошибка;
// любая ошибка означает сбой хранилища.
type Repository interface {
	// Расходы
	CreateExpense(ctx context.Context, expense *model.Expense) error
	GetExpenses(ctx context.Context, userID string, filter ExpenseFilter) ([]model.Expense, error)

	// Категории
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategories(ctx context.Context, userID string) ([]model.Category, error)
	DeleteCategory(ctx context.Context, id string, userID string) error

	// Цели бюджета: один документ на пользователя, перезапись при сохранении.
	// GetGoals возвращает (nil, nil), если цели еще не заданы.
	GetGoals(ctx context.Context, userID string) (*model.BudgetGoals, error)
	SaveGoals(ctx context.Context, goals *model.BudgetGoals) error

	// Чеки: загрузка фото во внешнее blob-хранилище, возвращает публичный URL
	UploadReceipt(ctx context.Context, userID string, data []byte, contentType string) (string, error)
}

// ExpenseFilter задает выборку расходов
type ExpenseFilter struct {
	Window *period.Window
	Limit  int
}
