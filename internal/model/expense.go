package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Expense представляет одну запись о расходе пользователя.
// Запись неизменяема после создания, timestamp хранится в миллисекундах epoch.
type Expense struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"user_id"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Timestamp   int64     `json:"timestamp"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// GenerateID генерирует новый UUID для записи, если он еще не установлен
func (e *Expense) GenerateID() {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
}

// IsIncome сообщает, является ли запись доходом.
// Категория "income" зарезервирована и сравнивается без учета регистра.
func (e Expense) IsIncome() bool {
	return strings.EqualFold(e.Category, "income")
}

// Time возвращает момент расхода как time.Time
func (e Expense) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}
