package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"

	"github.com/akozyrev/budget_bot/internal/model"
)

// SupabaseRepository хранит данные в таблицах Supabase (Postgrest)
// и фото чеков в Supabase Storage
type SupabaseRepository struct {
	client *supabase.Client
	bucket string
}

func NewSupabaseRepository(client *supabase.Client, receiptsBucket string) *SupabaseRepository {
	return &SupabaseRepository{
		client: client,
		bucket: receiptsBucket,
	}
}

func (r *SupabaseRepository) CreateExpense(ctx context.Context, expense *model.Expense) error {
	data, _, err := r.client.From("expenses").Insert(expense, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	// Парсим ответ для получения ID и created_at, назначенных хранилищем
	var created []model.Expense
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("failed to parse created expense: %w", err)
	}
	if len(created) > 0 {
		expense.ID = created[0].ID
		expense.CreatedAt = created[0].CreatedAt
	}
	return nil
}

func (r *SupabaseRepository) GetExpenses(ctx context.Context, userID string, filter ExpenseFilter) ([]model.Expense, error) {
	query := r.client.From("expenses").
		Select("*", "", false).
		Eq("user_id", userID)

	if filter.Window != nil {
		query = query.
			Gte("timestamp", strconv.FormatInt(filter.Window.StartMillis(), 10)).
			Lte("timestamp", strconv.FormatInt(filter.Window.EndMillis(), 10))
	}

	// Сначала новые
	query = query.Order("timestamp.desc", nil)

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit, "")
	}

	data, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}

	var expenses []model.Expense
	if err := json.Unmarshal(data, &expenses); err != nil {
		return nil, fmt.Errorf("failed to parse expenses: %w", err)
	}
	return expenses, nil
}

func (r *SupabaseRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	data, _, err := r.client.From("categories").Insert(category, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	var created []model.Category
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("failed to parse created category: %w", err)
	}
	if len(created) > 0 {
		category.ID = created[0].ID
		category.CreatedAt = created[0].CreatedAt
	}
	return nil
}

func (r *SupabaseRepository) GetCategories(ctx context.Context, userID string) ([]model.Category, error) {
	data, _, err := r.client.From("categories").
		Select("*", "", false).
		Eq("user_id", userID).
		Order("name.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	var categories []model.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}
	return categories, nil
}

func (r *SupabaseRepository) DeleteCategory(ctx context.Context, id string, userID string) error {
	_, _, err := r.client.From("categories").
		Delete("", "").
		Eq("id", id).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) GetGoals(ctx context.Context, userID string) (*model.BudgetGoals, error) {
	data, _, err := r.client.From("budget_settings").
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get budget goals: %w", err)
	}

	var goals []model.BudgetGoals
	if err := json.Unmarshal(data, &goals); err != nil {
		return nil, fmt.Errorf("failed to parse budget goals: %w", err)
	}
	if len(goals) == 0 {
		// Цели еще не заданы
		return nil, nil
	}
	return &goals[0], nil
}

func (r *SupabaseRepository) SaveGoals(ctx context.Context, goals *model.BudgetGoals) error {
	_, _, err := r.client.From("budget_settings").
		Insert(goals, true, "user_id", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to save budget goals: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) UploadReceipt(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	path := fmt.Sprintf("%s/%s.jpg", userID, uuid.New().String())

	_, err := r.client.Storage.UploadFile(r.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt: %w", err)
	}

	return r.client.Storage.GetPublicUrl(r.bucket, path).SignedURL, nil
}
