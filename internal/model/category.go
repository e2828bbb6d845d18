package model

import "time"

// Category — пользовательская категория расходов.
// MonthlyLimit равный нулю означает "без лимита"; лимит справочный,
// автоматически не применяется к расходам.
type Category struct {
	ID           string    `json:"id,omitempty"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	MonthlyLimit float64   `json:"monthly_limit"`
	Icon         string    `json:"icon,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}
