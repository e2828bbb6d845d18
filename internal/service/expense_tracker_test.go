package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akozyrev/budget_bot/internal/budget"
	"github.com/akozyrev/budget_bot/internal/model"
	"github.com/akozyrev/budget_bot/internal/period"
	"github.com/akozyrev/budget_bot/internal/repository"
)

// fakeRepo — хранилище в памяти для тестов сервиса.
// Поля *Err подменяют результат метода, onGetExpenses вызывается перед
// возвратом выборки.
type fakeRepo struct {
	expenses   []model.Expense
	categories []model.Category
	goals      *model.BudgetGoals
	receiptURL string

	getExpensesErr   error
	getGoalsErr      error
	saveGoalsErr     error
	uploadReceiptErr error
	createExpenseErr error

	onGetExpenses func()
}

func (f *fakeRepo) CreateExpense(ctx context.Context, expense *model.Expense) error {
	if f.createExpenseErr != nil {
		return f.createExpenseErr
	}
	f.expenses = append(f.expenses, *expense)
	return nil
}

func (f *fakeRepo) GetExpenses(ctx context.Context, userID string, filter repository.ExpenseFilter) ([]model.Expense, error) {
	if f.onGetExpenses != nil {
		f.onGetExpenses()
	}
	if f.getExpensesErr != nil {
		return nil, f.getExpensesErr
	}
	result := f.expenses
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (f *fakeRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	f.categories = append(f.categories, *category)
	return nil
}

func (f *fakeRepo) GetCategories(ctx context.Context, userID string) ([]model.Category, error) {
	return f.categories, nil
}

func (f *fakeRepo) DeleteCategory(ctx context.Context, id string, userID string) error {
	return nil
}

func (f *fakeRepo) GetGoals(ctx context.Context, userID string) (*model.BudgetGoals, error) {
	if f.getGoalsErr != nil {
		return nil, f.getGoalsErr
	}
	return f.goals, nil
}

func (f *fakeRepo) SaveGoals(ctx context.Context, goals *model.BudgetGoals) error {
	if f.saveGoalsErr != nil {
		return f.saveGoalsErr
	}
	f.goals = goals
	return nil
}

func (f *fakeRepo) UploadReceipt(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	if f.uploadReceiptErr != nil {
		return "", f.uploadReceiptErr
	}
	return f.receiptURL, nil
}

func expenseNow(category string, amount float64) model.Expense {
	return model.Expense{Category: category, Amount: amount, Timestamp: time.Now().UnixMilli()}
}

func TestOverviewPipeline(t *testing.T) {
	minGoal := 500.0
	repo := &fakeRepo{
		expenses: []model.Expense{
			expenseNow("Продукты", 300),
			expenseNow("Income", 50000),
			expenseNow("Транспорт", 100),
		},
		goals: &model.BudgetGoals{UserID: "u1", MonthlyGoal: 1000, MinSpendingGoal: &minGoal},
	}
	tracker := NewExpenseTracker(repo)

	overview, err := tracker.Overview(context.Background(), "u1", period.Monthly, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 400.0, overview.Summary.Total, "income rows are excluded from spend")
	assert.Equal(t, 40, overview.Status.Percentage)
	assert.Equal(t, budget.TierWatch, overview.Status.Tier)
	assert.Equal(t, 600.0, overview.Status.Remaining)
	assert.Equal(t, &minGoal, overview.Status.MinGoal)
}

func TestOverviewWithoutGoals(t *testing.T) {
	repo := &fakeRepo{expenses: []model.Expense{expenseNow("Продукты", 300)}}
	tracker := NewExpenseTracker(repo)

	overview, err := tracker.Overview(context.Background(), "u1", period.Monthly, time.Now())
	require.NoError(t, err)

	assert.Nil(t, overview.Goals)
	assert.Equal(t, budget.TierNoBudget, overview.Status.Tier)
}

func TestOverviewFetchFailureShortCircuits(t *testing.T) {
	repo := &fakeRepo{getGoalsErr: errors.New("connection refused")}
	tracker := NewExpenseTracker(repo)

	_, err := tracker.Overview(context.Background(), "u1", period.Monthly, time.Now())
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to get budget goals")

	repo = &fakeRepo{getExpensesErr: errors.New("connection refused")}
	tracker = NewExpenseTracker(repo)

	_, err = tracker.Overview(context.Background(), "u1", period.Monthly, time.Now())
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to get expenses")
}

func TestOverviewSupersededByNewerRequest(t *testing.T) {
	repo := &fakeRepo{}
	tracker := NewExpenseTracker(repo)

	// Пока первый обзор читает расходы, стартует второй для того же
	// пользователя: результат первого должен быть отброшен
	fired := false
	repo.onGetExpenses = func() {
		if !fired {
			fired = true
			tracker.requests.begin("overview:u1")
		}
	}

	_, err := tracker.Overview(context.Background(), "u1", period.Monthly, time.Now())
	assert.ErrorIs(t, err, ErrSuperseded)

	// Следующий обзор уже никто не вытесняет
	_, err = tracker.Overview(context.Background(), "u1", period.Monthly, time.Now())
	assert.NoError(t, err)
}

func TestStatisticsCarriesGoals(t *testing.T) {
	minGoal, maxGoal := 500.0, 2000.0
	repo := &fakeRepo{
		expenses: []model.Expense{expenseNow("Продукты", 300)},
		goals:    &model.BudgetGoals{UserID: "u1", MinSpendingGoal: &minGoal, MaxSpendingGoal: &maxGoal},
	}
	tracker := NewExpenseTracker(repo)

	stats, err := tracker.Statistics(context.Background(), "u1", period.Weekly, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 300.0, stats.Summary.Total)
	assert.Equal(t, &minGoal, stats.MinGoal)
	assert.Equal(t, &maxGoal, stats.MaxGoal)
}

func TestAddExpense(t *testing.T) {
	repo := &fakeRepo{}
	tracker := NewExpenseTracker(repo)

	expense, err := tracker.AddExpense(context.Background(), "u1", AddExpenseInput{
		Amount:      150.50,
		Category:    " Продукты ",
		Description: " хлеб и молоко ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, expense.ID)
	assert.Equal(t, "u1", expense.UserID)
	assert.Equal(t, "Продукты", expense.Category)
	assert.Equal(t, "хлеб и молоко", expense.Description)
	assert.Nil(t, expense.ImageURL)
	require.Len(t, repo.expenses, 1)
}

func TestAddExpenseWithReceipt(t *testing.T) {
	repo := &fakeRepo{receiptURL: "https://storage.example/receipts/u1/abc.jpg"}
	tracker := NewExpenseTracker(repo)

	expense, err := tracker.AddExpense(context.Background(), "u1", AddExpenseInput{
		Amount:             99,
		Category:           "Продукты",
		Receipt:            []byte{0xFF, 0xD8},
		ReceiptContentType: "image/jpeg",
	})
	require.NoError(t, err)
	require.NotNil(t, expense.ImageURL)
	assert.Equal(t, repo.receiptURL, *expense.ImageURL)
}

func TestAddExpenseUploadFailureAbortsSave(t *testing.T) {
	repo := &fakeRepo{uploadReceiptErr: errors.New("bucket unavailable")}
	tracker := NewExpenseTracker(repo)

	_, err := tracker.AddExpense(context.Background(), "u1", AddExpenseInput{
		Amount:   99,
		Category: "Продукты",
		Receipt:  []byte{0xFF, 0xD8},
	})
	require.Error(t, err)
	assert.Empty(t, repo.expenses, "expense must not be saved when upload fails")
}

func TestAddExpenseValidation(t *testing.T) {
	repo := &fakeRepo{}
	tracker := NewExpenseTracker(repo)

	tests := []struct {
		name  string
		input AddExpenseInput
	}{
		{"negative amount", AddExpenseInput{Amount: -5, Category: "Продукты"}},
		{"empty category", AddExpenseInput{Amount: 100, Category: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tracker.AddExpense(context.Background(), "u1", tt.input)
			assert.True(t, IsValidationError(err))
			assert.Empty(t, repo.expenses)
		})
	}
}

func TestSaveMonthlyGoalKeepsSpendingGoals(t *testing.T) {
	minGoal := 500.0
	repo := &fakeRepo{goals: &model.BudgetGoals{UserID: "u1", MinSpendingGoal: &minGoal}}
	tracker := NewExpenseTracker(repo)

	require.NoError(t, tracker.SaveMonthlyGoal(context.Background(), "u1", 30000))

	assert.Equal(t, 30000.0, repo.goals.MonthlyGoal)
	assert.Equal(t, &minGoal, repo.goals.MinSpendingGoal, "min goal must survive the update")
}

func TestSaveSpendingGoalsKeepsMonthlyGoal(t *testing.T) {
	repo := &fakeRepo{goals: &model.BudgetGoals{UserID: "u1", MonthlyGoal: 30000}}
	tracker := NewExpenseTracker(repo)

	minGoal := 5000.0
	require.NoError(t, tracker.SaveSpendingGoals(context.Background(), "u1", &minGoal, 20000))

	assert.Equal(t, 30000.0, repo.goals.MonthlyGoal)
	assert.Equal(t, &minGoal, repo.goals.MinSpendingGoal)
	require.NotNil(t, repo.goals.MaxSpendingGoal)
	assert.Equal(t, 20000.0, *repo.goals.MaxSpendingGoal)
}

func TestSaveSpendingGoalsWithoutMin(t *testing.T) {
	repo := &fakeRepo{}
	tracker := NewExpenseTracker(repo)

	require.NoError(t, tracker.SaveSpendingGoals(context.Background(), "u1", nil, 20000))

	assert.Nil(t, repo.goals.MinSpendingGoal, "absent min goal stays unset, not zero")
	require.NotNil(t, repo.goals.MaxSpendingGoal)
}

func TestSaveSpendingGoalsValidation(t *testing.T) {
	repo := &fakeRepo{}
	tracker := NewExpenseTracker(repo)

	minGoal := 30000.0
	err := tracker.SaveSpendingGoals(context.Background(), "u1", &minGoal, 20000)
	assert.True(t, IsValidationError(err), "min above max is rejected")

	err = tracker.SaveSpendingGoals(context.Background(), "u1", nil, -1)
	assert.True(t, IsValidationError(err))

	assert.Nil(t, repo.goals, "nothing saved on validation failure")
}

func TestCreateDefaultCategories(t *testing.T) {
	repo := &fakeRepo{}
	tracker := NewExpenseTracker(repo)

	require.NoError(t, tracker.CreateDefaultCategories(context.Background(), "u1"))
	assert.Len(t, repo.categories, 4)

	// Повторный вызов не дублирует существующие категории
	require.NoError(t, tracker.CreateDefaultCategories(context.Background(), "u1"))
	assert.Len(t, repo.categories, 4)
}

func TestCreateCategoryValidation(t *testing.T) {
	repo := &fakeRepo{}
	tracker := NewExpenseTracker(repo)

	_, err := tracker.CreateCategory(context.Background(), "u1", "  ", 0)
	assert.True(t, IsValidationError(err))

	_, err = tracker.CreateCategory(context.Background(), "u1", "Продукты", -1)
	assert.True(t, IsValidationError(err))

	category, err := tracker.CreateCategory(context.Background(), "u1", " Продукты ", 5000)
	require.NoError(t, err)
	assert.Equal(t, "Продукты", category.Name)
	assert.Equal(t, 5000.0, category.MonthlyLimit)
}
