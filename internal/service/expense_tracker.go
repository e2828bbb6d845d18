package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/akozyrev/budget_bot/internal/budget"
	"github.com/akozyrev/budget_bot/internal/model"
	"github.com/akozyrev/budget_bot/internal/period"
	"github.com/akozyrev/budget_bot/internal/repository"
)

// ExpenseTracker предоставляет методы для работы с бюджетом пользователя.
// Все вычисления чистые; изменяемого разделяемого состояния нет, каждый
// цикл выборки производит неизменяемый результат.
type ExpenseTracker struct {
	repo     repository.Repository
	requests *requestSequencer
}

func NewExpenseTracker(repo repository.Repository) *ExpenseTracker {
	return &ExpenseTracker{
		repo:     repo,
		requests: newRequestSequencer(),
	}
}

// Overview — обзор бюджета за период: агрегированные траты и статус
type Overview struct {
	Window  period.Window
	Summary budget.Summary
	Status  budget.Status
	Goals   *model.BudgetGoals
}

// Statistics — данные для экрана статистики: траты по категориям
// и цели для опорных линий графика
type Statistics struct {
	Window  period.Window
	Summary budget.Summary
	MinGoal *float64
	MaxGoal *float64
}

// Overview строит обзор бюджета за выбранный период.
// Последовательная цепочка: цели -> расходы -> агрегация -> оценка;
// любой сбой выборки прерывает цепочку. Если за время выполнения был
// начат более новый обзор для того же пользователя, возвращается
// ErrSuperseded и результат отбрасывается.
func (s *ExpenseTracker) Overview(ctx context.Context, userID string, kind period.Kind, now time.Time) (*Overview, error) {
	token := s.requests.begin("overview:" + userID)
	window := period.Resolve(kind, now)

	goals, err := s.repo.GetGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget goals: %w", err)
	}

	expenses, err := s.repo.GetExpenses(ctx, userID, repository.ExpenseFilter{Window: &window})
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}

	if !s.requests.isCurrent("overview:"+userID, token) {
		return nil, ErrSuperseded
	}

	summary := budget.Aggregate(expenses, window)

	var totalBudget float64
	var minGoal, maxGoal *float64
	if goals != nil {
		totalBudget = goals.MonthlyGoal
		minGoal = goals.MinSpendingGoal
		maxGoal = goals.MaxSpendingGoal
	}

	return &Overview{
		Window:  window,
		Summary: summary,
		Status:  budget.Evaluate(totalBudget, summary.Total, minGoal, maxGoal),
		Goals:   goals,
	}, nil
}

// Statistics строит сводку трат по категориям за выбранный период
func (s *ExpenseTracker) Statistics(ctx context.Context, userID string, kind period.Kind, now time.Time) (*Statistics, error) {
	token := s.requests.begin("statistics:" + userID)
	window := period.Resolve(kind, now)

	goals, err := s.repo.GetGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget goals: %w", err)
	}

	expenses, err := s.repo.GetExpenses(ctx, userID, repository.ExpenseFilter{Window: &window})
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}

	if !s.requests.isCurrent("statistics:"+userID, token) {
		return nil, ErrSuperseded
	}

	stats := &Statistics{
		Window:  window,
		Summary: budget.Aggregate(expenses, window),
	}
	if goals != nil {
		stats.MinGoal = goals.MinSpendingGoal
		stats.MaxGoal = goals.MaxSpendingGoal
	}
	return stats, nil
}

// AddExpenseInput — данные нового расхода; Receipt может быть nil
type AddExpenseInput struct {
	Amount             float64
	Category           string
	Description        string
	Receipt            []byte
	ReceiptContentType string
}

// AddExpense проверяет ввод, загружает фото чека (если оно есть)
// и сохраняет запись. Сбой загрузки отменяет сохранение.
func (s *ExpenseTracker) AddExpense(ctx context.Context, userID string, input AddExpenseInput) (*model.Expense, error) {
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) {
		return nil, &ValidationError{Field: "amount", Reason: "not a valid number"}
	}
	if input.Amount < 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, &ValidationError{Field: "category", Reason: "must not be empty"}
	}

	expense := &model.Expense{
		UserID:      userID,
		Amount:      input.Amount,
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
		Timestamp:   time.Now().UnixMilli(),
	}
	expense.GenerateID()

	if len(input.Receipt) > 0 {
		url, err := s.repo.UploadReceipt(ctx, userID, input.Receipt, input.ReceiptContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload receipt: %w", err)
		}
		expense.ImageURL = &url
	}

	if err := s.repo.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return expense, nil
}

// RecentExpenses возвращает последние записи, сначала новые
func (s *ExpenseTracker) RecentExpenses(ctx context.Context, userID string, limit int) ([]model.Expense, error) {
	return s.repo.GetExpenses(ctx, userID, repository.ExpenseFilter{Limit: limit})
}

// Expenses возвращает всю историю расходов, сначала новые
func (s *ExpenseTracker) Expenses(ctx context.Context, userID string) ([]model.Expense, error) {
	return s.repo.GetExpenses(ctx, userID, repository.ExpenseFilter{})
}

// Goals возвращает цели пользователя; (nil, nil) — цели не заданы
func (s *ExpenseTracker) Goals(ctx context.Context, userID string) (*model.BudgetGoals, error) {
	return s.repo.GetGoals(ctx, userID)
}

// SaveMonthlyGoal сохраняет месячный бюджет, не затрагивая цели min/max
func (s *ExpenseTracker) SaveMonthlyGoal(ctx context.Context, userID string, amount float64) error {
	if math.IsNaN(amount) || amount < 0 {
		return &ValidationError{Field: "monthly_goal", Reason: "must be a non-negative number"}
	}

	goals, err := s.repo.GetGoals(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get budget goals: %w", err)
	}
	if goals == nil {
		goals = &model.BudgetGoals{UserID: userID}
	}
	goals.MonthlyGoal = amount

	return s.repo.SaveGoals(ctx, goals)
}

// SaveSpendingGoals сохраняет цели min/max. Max обязателен, min может
// отсутствовать; если заданы обе, min не должен превышать max.
// Месячный бюджет при этом не затрагивается.
func (s *ExpenseTracker) SaveSpendingGoals(ctx context.Context, userID string, minGoal *float64, maxGoal float64) error {
	if math.IsNaN(maxGoal) || maxGoal < 0 {
		return &ValidationError{Field: "max_spending_goal", Reason: "must be a non-negative number"}
	}
	if minGoal != nil {
		if math.IsNaN(*minGoal) || *minGoal < 0 {
			return &ValidationError{Field: "min_spending_goal", Reason: "must be a non-negative number"}
		}
		if *minGoal > maxGoal {
			return &ValidationError{Field: "min_spending_goal", Reason: "must not exceed max goal"}
		}
	}

	goals, err := s.repo.GetGoals(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get budget goals: %w", err)
	}
	if goals == nil {
		goals = &model.BudgetGoals{UserID: userID}
	}
	goals.MinSpendingGoal = minGoal
	goals.MaxSpendingGoal = &maxGoal

	return s.repo.SaveGoals(ctx, goals)
}

// GetCategories возвращает справочник категорий пользователя
func (s *ExpenseTracker) GetCategories(ctx context.Context, userID string) ([]model.Category, error) {
	return s.repo.GetCategories(ctx, userID)
}

// CreateCategory проверяет и сохраняет новую категорию
func (s *ExpenseTracker) CreateCategory(ctx context.Context, userID, name string, monthlyLimit float64) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if math.IsNaN(monthlyLimit) || monthlyLimit < 0 {
		return nil, &ValidationError{Field: "monthly_limit", Reason: "must be a non-negative number"}
	}

	category := &model.Category{
		UserID:       userID,
		Name:         name,
		MonthlyLimit: monthlyLimit,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *ExpenseTracker) DeleteCategory(ctx context.Context, id, userID string) error {
	return s.repo.DeleteCategory(ctx, id, userID)
}

// CreateDefaultCategories создает стартовый набор категорий,
// если у пользователя их еще нет
func (s *ExpenseTracker) CreateDefaultCategories(ctx context.Context, userID string) error {
	existing, err := s.repo.GetCategories(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get existing categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := []model.Category{
		{UserID: userID, Name: "Продукты"},
		{UserID: userID, Name: "Транспорт"},
		{UserID: userID, Name: "Развлечения"},
		{UserID: userID, Name: "Счета"},
	}
	for i := range defaults {
		if err := s.repo.CreateCategory(ctx, &defaults[i]); err != nil {
			return fmt.Errorf("failed to create category %s: %w", defaults[i].Name, err)
		}
	}
	return nil
}
